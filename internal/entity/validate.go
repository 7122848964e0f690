package entity

import (
	"fmt"
	"time"

	"github.com/ehmtravel/backoffice/internal"
)

// Validate checks a payload against the schema before any network call is
// made. Failures never reach the backend.
func (s Schema) Validate(r Record) *internal.AppError {
	var errs []internal.ValidationError

	for _, f := range s.Fields {
		v, present := r[f.Name]

		if f.Required && (!present || v == nil || v == "") {
			errs = append(errs, internal.ValidationError{
				Field:   f.Name,
				Message: fmt.Sprintf("%s is required", f.Name),
				Code:    string(internal.ErrCodeMissingField),
			})
			continue
		}
		if !present || v == nil {
			continue
		}

		if err := checkFieldType(f, v); err != nil {
			errs = append(errs, *err)
			continue
		}

		if f.MaxLength > 0 {
			if str, ok := v.(string); ok && len(str) > f.MaxLength {
				errs = append(errs, internal.ValidationError{
					Field:   f.Name,
					Message: fmt.Sprintf("%s must not exceed %d characters", f.Name, f.MaxLength),
					Code:    string(internal.ErrCodeFieldTooLong),
				})
			}
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: errs})
	}
	return nil
}

// CheckTypes verifies records arriving from the backend against the schema.
// Parsing happens once at the gateway boundary instead of trusting shapes
// throughout the views.
func (s Schema) CheckTypes(r Record) *internal.AppError {
	for _, f := range s.Fields {
		v, present := r[f.Name]
		if !present || v == nil {
			continue
		}
		if err := checkFieldType(f, v); err != nil {
			return internal.NewValidationError(err.Message, internal.ErrCodeWrongFieldType).
				WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{*err}})
		}
	}
	return nil
}

func checkFieldType(f Field, v any) *internal.ValidationError {
	ok := true
	switch f.Type {
	case FieldString:
		_, ok = v.(string)
	case FieldNumber:
		switch v.(type) {
		case float64, int, int64:
		default:
			ok = false
		}
	case FieldBool:
		_, ok = v.(bool)
	case FieldDate:
		str, isStr := v.(string)
		if !isStr {
			ok = false
			break
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			if _, err := time.Parse("2006-01-02", str); err != nil {
				ok = false
			}
		}
	}
	if ok {
		return nil
	}
	return &internal.ValidationError{
		Field:   f.Name,
		Message: fmt.Sprintf("%s has wrong type, expected %s", f.Name, f.Type),
		Code:    string(internal.ErrCodeWrongFieldType),
	}
}
