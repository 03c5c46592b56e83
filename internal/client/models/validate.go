package models

import (
	"fmt"

	"github.com/dmitrijs2005/vaultx/internal/common"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const maxNameLength = 255

func categoryRule() validation.Rule {
	known := make([]any, 0, len(Categories))
	for _, c := range Categories {
		known = append(known, c)
	}
	return validation.In(known...)
}

// Validate checks a record before it is written to the local store.
func (r DocumentRecord) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, is.UUIDv4),
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.Category, validation.Required, categoryRule()),
		validation.Field(&r.LocalPath, validation.Required),
		validation.Field(&r.CreatedAt, validation.Required, validation.Min(int64(1))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorIncorrectMetadata, err)
	}
	return nil
}

// Validate checks a record before it is upserted into the cloud store.
func (r CloudDocumentRecord) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, is.UUIDv4),
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.Category, validation.Required, categoryRule()),
		validation.Field(&r.StoragePath, validation.Required),
		validation.Field(&r.CreatedAt, validation.Required, validation.Min(int64(1))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorIncorrectMetadata, err)
	}
	return nil
}
