package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/vaultx/internal/client/config"
	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/common"
)

// getSecret is a test seam for GetSecret.
var getSecret = GetSecret

var errNoID = errors.New("document id required")

func (a *App) Login(ctx context.Context) error {
	token, err := getSecret("Paste access token", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(token)

	s, err := a.auth.Login(ctx, string(token))
	if err != nil {
		return err
	}

	msg := "Signed in as " + s.UserID
	if !s.ExpiresAt.IsZero() {
		msg += ", session valid until " + s.ExpiresAt.Local().Format(time.DateTime)
	}
	printlnFn(msg)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.auth.CurrentSession(ctx)
	if !ok {
		printlnFn("Not signed in")
		return nil
	}
	if s.Email != "" {
		printlnFn(s.UserID, "<"+s.Email+">")
	} else {
		printlnFn(s.UserID)
	}
	return nil
}

// Add takes an optional path and category; whatever is missing is asked for.
func (a *App) Add(ctx context.Context, args []string) error {
	var source, category string
	if len(args) > 0 {
		source = args[0]
	}
	if len(args) > 1 {
		category = args[1]
	}

	if source == "" {
		var err error
		if source, err = GetSimpleText(a.reader, "Path to the document (empty to cancel)", a.out); err != nil {
			return err
		}
	}
	if source != "" && category == "" {
		var err error
		if category, err = Choose(a.reader, "Category", categoryNames(), a.out); err != nil {
			return err
		}
	}

	doc, err := a.docs.Add(ctx, source, models.ParseCategory(category))
	if err != nil {
		return err
	}
	if doc == nil {
		printlnFn("Cancelled")
		return nil
	}

	printlnFn(fmt.Sprintf("Added %s (%s) as %s", doc.Name, doc.Category, doc.ID))
	if !doc.Synced {
		printlnFn("Stored on this device; it will be uploaded when the cloud is reachable")
	}
	return nil
}

func categoryNames() []string {
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, string(c))
	}
	return names
}

func (a *App) List(ctx context.Context) error {
	docs, err := a.docs.List(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		printlnFn("No documents")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSTORED\tSYNCED\tADDED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Name, d.Category, where(d), yesNo(d.Synced),
			time.UnixMilli(d.CreatedAt).Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func where(d models.UnifiedDocument) string {
	if d.IsLocal() {
		return "device"
	}
	return "cloud"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// resolve finds the document named by args[0], asking for the id if absent.
func (a *App) resolve(ctx context.Context, args []string) (models.UnifiedDocument, error) {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		if id, err = GetSimpleText(a.reader, "Document id", a.out); err != nil {
			return models.UnifiedDocument{}, err
		}
	}
	if id == "" {
		return models.UnifiedDocument{}, errNoID
	}
	return a.docs.Get(ctx, id)
}

func (a *App) Delete(ctx context.Context, args []string) error {
	doc, err := a.resolve(ctx, args)
	if err != nil {
		return err
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete %q?", doc.Name), a.out) {
		printlnFn("Cancelled")
		return nil
	}

	left, err := a.docs.Delete(ctx, doc)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted, %d document(s) left", len(left)))
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	doc, err := a.resolve(ctx, args)
	if err != nil {
		return err
	}
	return a.docs.Open(ctx, doc)
}

func (a *App) URL(ctx context.Context, args []string) error {
	doc, err := a.resolve(ctx, args)
	if err != nil {
		return err
	}
	url, err := a.docs.URL(ctx, doc)
	if err != nil {
		return err
	}
	printlnFn(url)
	return nil
}

// Sync runs one auto-sync pass now.
func (a *App) Sync(ctx context.Context) error {
	if a.auto == nil {
		if a.mode == config.ModeCloud {
			printlnFn("Nothing to sync: documents go straight to the cloud")
		} else {
			printlnFn("Cloud storage is not configured")
		}
		return nil
	}

	rep := a.auto.Tick(ctx)
	switch {
	case rep.Busy:
		printlnFn("A sync is already running")
	case rep.Offline:
		printlnFn("Offline, documents will be uploaded later")
	case rep.Err != nil:
		return rep.Err
	case rep.Pending == 0:
		printlnFn("Everything is synced")
	default:
		printlnFn(fmt.Sprintf("Synced %d of %d (skipped %d, failed %d)",
			rep.Synced, rep.Pending, rep.Skipped, rep.Failed))
		if rep.Skipped > 0 {
			printlnFn("Sign in to upload skipped documents")
		}
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.probe.Check(ctx)

	printlnFn("Mode:", a.mode)
	printlnFn("Network connected:", yesNo(st.Connected))
	printlnFn("Cloud reachable:", yesNo(st.InternetReachable))
	if s, ok := a.auth.CurrentSession(ctx); ok {
		printlnFn("Signed in as:", s.UserID)
	} else {
		printlnFn("Signed in as: -")
	}
	return nil
}
