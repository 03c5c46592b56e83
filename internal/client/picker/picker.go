// Package picker turns a user's file choice into something ingestion can
// store: a private on-device copy, or the raw bytes for a direct cloud upload.
package picker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/vaultx/internal/common"
	"github.com/dmitrijs2005/vaultx/internal/filex"
)

// Picked is the result of a successful pick. Exactly one of LocalPath and
// Data is set.
type Picked struct {
	// Name is the original file name, shown to the user.
	Name      string
	LocalPath string
	Data      []byte
}

// Picker resolves source, a path chosen by the user. An empty source means
// the user cancelled; Pick then returns (nil, nil).
type Picker interface {
	Pick(ctx context.Context, source string) (*Picked, error)
}

// DevicePicker copies the chosen file into Dir under a unique name.
type DevicePicker struct {
	Dir string
	now func() time.Time
}

func NewDevicePicker(dir string) *DevicePicker {
	return &DevicePicker{Dir: dir, now: time.Now}
}

func (p *DevicePicker) Pick(_ context.Context, source string) (*Picked, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	name := filepath.Base(source)
	unique, err := UniqueFilename(name, p.now())
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(p.Dir, unique)
	if err := filex.CopyFile(source, dst); err != nil {
		return nil, fmt.Errorf("copy picked file: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return nil, err
	}
	return &Picked{Name: name, LocalPath: "file://" + filepath.ToSlash(abs)}, nil
}

// BytesPicker reads the chosen file into memory.
type BytesPicker struct{}

func (BytesPicker) Pick(_ context.Context, source string) (*Picked, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read picked file: %w", err)
	}
	return &Picked{Name: filepath.Base(source), Data: data}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// UniqueFilename builds "<stem>_<unixmillis>_<rand>.<ext>" from name, with
// anything outside [A-Za-z0-9_-] in the stem replaced by underscores.
func UniqueFilename(name string, now time.Time) (string, error) {
	ext := filex.Ext(name)
	stem := name
	if ext != "" {
		stem = name[:len(name)-len(ext)-1]
	}
	stem = strings.Trim(unsafeChars.ReplaceAllString(stem, "_"), "_")
	if stem == "" {
		stem = "document"
	}

	suffix, err := common.MakeRandHexString(2)
	if err != nil {
		return "", err
	}

	unique := fmt.Sprintf("%s_%d_%s", stem, now.UnixMilli(), suffix)
	if ext != "" {
		unique += "." + ext
	}
	return unique, nil
}
