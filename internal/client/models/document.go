// Package models holds the document records shared by the local store, the
// cloud stores and the unified view.
package models

import (
	"strings"

	"github.com/dmitrijs2005/vaultx/internal/filex"
)

type Category string

const (
	CategoryPassport    Category = "passport"
	CategoryLicense     Category = "license"
	CategoryCertificate Category = "certificate"
	CategoryInsurance   Category = "insurance"
	CategoryOther       Category = "other"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryPassport,
	CategoryLicense,
	CategoryCertificate,
	CategoryInsurance,
	CategoryOther,
}

// ParseCategory maps free text onto a known category, falling back to other.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

// DocumentRecord is a row of the on-device store.
type DocumentRecord struct {
	ID        string
	Name      string
	Category  Category
	LocalPath string
	// CreatedAt is milliseconds since the epoch on the client clock.
	CreatedAt int64
	Synced    bool
}

// CloudDocumentRecord is a row of the cloud metadata store.
type CloudDocumentRecord struct {
	ID          string
	UserID      string
	Name        string
	Category    Category
	StoragePath string
	CreatedAt   int64
}

// UnifiedDocument is the merged read model shown to the user. For cloud-only
// entries LocalPath holds the object-store key instead of a file path.
type UnifiedDocument DocumentRecord

// IsLocal reports whether the document's bytes live on this device.
func (d UnifiedDocument) IsLocal() bool {
	return filex.IsLocalPath(d.LocalPath)
}

func (r DocumentRecord) Unified() UnifiedDocument {
	return UnifiedDocument(r)
}

// Unified projects a cloud row onto the view. Cloud rows are synced by
// definition.
func (r CloudDocumentRecord) Unified() UnifiedDocument {
	return UnifiedDocument{
		ID:        r.ID,
		Name:      r.Name,
		Category:  r.Category,
		LocalPath: r.StoragePath,
		CreatedAt: r.CreatedAt,
		Synced:    true,
	}
}
