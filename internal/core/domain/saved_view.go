package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
)

// MaxViewNameLength limits saved view names.
const MaxViewNameLength = 100

// SavedView is a named filter state kept for later reuse.
type SavedView struct {
	ID        uuid.UUID
	Name      string
	State     FilterState
	CreatedAt time.Time
}

// NewSavedView validates the inputs and builds a view ready to persist.
func NewSavedView(name string, state FilterState) (*SavedView, error) {
	errs := apperrors.NewValidationErrors()

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", apperrors.ErrViewNameRequired.Error())
	} else if len(name) > MaxViewNameLength {
		errs.Add("name", apperrors.ErrViewNameTooLong.Error())
	}

	if err := state.Validate(); err != nil {
		if verrs, ok := err.(*apperrors.ValidationErrors); ok {
			for field, msgs := range verrs.Errors {
				for _, msg := range msgs {
					errs.Add("state."+field, msg)
				}
			}
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return &SavedView{
		ID:        uuid.New(),
		Name:      name,
		State:     state.Normalized(),
		CreatedAt: time.Now().UTC(),
	}, nil
}
