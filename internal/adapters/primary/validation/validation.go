package validation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
)

const (
	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes = 1 << 20

	// MaxSearchLength bounds the free-text filters.
	MaxSearchLength = 200

	// MaxSelections bounds the values of one multi-select filter.
	MaxSelections = 500
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Err returns the collected errors, or nil when there are none.
func (v *Validator) Err() error {
	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors.Add(field, "Must be at most "+strconv.Itoa(max)+" characters")
	}
	return v
}

// MaxItems validates the size of a list
func (v *Validator) MaxItems(field string, values []string, max int) *Validator {
	if len(values) > max {
		v.errors.Add(field, "Must have at most "+strconv.Itoa(max)+" values")
	}
	return v
}

// Range validates integer is within range
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors.Add(field, "Must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}
	if slices.Contains(allowed, value) {
		return v
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// FilterState checks the request-level limits of a filter state. Semantic
// checks such as the date range order are left to the domain.
func (v *Validator) FilterState(prefix string, s domain.FilterState) *Validator {
	v.MaxLength(prefix+"search", s.Search, MaxSearchLength)
	v.MaxLength(prefix+"title", s.Title, MaxSearchLength)
	v.MaxLength(prefix+"project", s.Project, MaxSearchLength)
	v.MaxItems(prefix+"status", s.Status, MaxSelections)
	v.MaxItems(prefix+"feature", s.Feature, MaxSelections)
	v.MaxItems(prefix+"platform", s.Platform, MaxSelections)
	v.MaxItems(prefix+"stage", s.Stage, MaxSelections)
	v.MaxItems(prefix+"squad", s.Squad, MaxSelections)
	v.MaxItems(prefix+"labels", s.Labels, MaxSelections)
	v.OneOf(prefix+"solved", string(s.Solved), []string{string(domain.SolvedYes), string(domain.SolvedNotYet)})
	return v
}

// ParseUUID parses a path or query value as a UUID
func ParseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		errs := apperrors.NewValidationErrors()
		errs.Add(field, "Must be a valid UUID")
		return uuid.Nil, errs
	}
	return id, nil
}

// DecodeAndValidate decodes a JSON request body. Unknown fields and trailing
// data are rejected.
func DecodeAndValidate[T any](r *http.Request) (*T, error) {
	var req T
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeOptional decodes a JSON request body, treating an empty body as the
// zero value.
func DecodeOptional[T any](r *http.Request) (*T, error) {
	var req T
	if r.Body == nil || r.Body == http.NoBody {
		return &req, nil
	}
	if err := decode(r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return &req, nil
		}
		return nil, err
	}
	return &req, nil
}

func decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.NewBadRequestError(io.EOF, "Request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewBadRequestError(err, "Request body is required")
		}
		return apperrors.NewBadRequestError(err, "Invalid request body")
	}
	if dec.More() {
		return apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Request body must hold a single JSON object")
	}
	return nil
}

// ParseIntQueryParam safely parses an integer query parameter
func ParseIntQueryParam(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return defaultValue
	}

	return value
}

// ParseLimit reads the limit query parameter, clamped to maxLimit.
func ParseLimit(r *http.Request, defaultLimit, maxLimit int) int {
	limit := ParseIntQueryParam(r, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	return min(limit, maxLimit)
}
