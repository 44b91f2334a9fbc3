package middleware

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bryanwahyu/keynes-workspace/internal/domain/analysis"
	"github.com/bryanwahyu/keynes-workspace/internal/domain/errs"
)

// Input validation and sanitization utilities

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of a request DTO.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.Invalid("%s failed %q", strings.ToLower(fe.Field()), fe.Tag())
		}
		return errs.Invalid("%v", err)
	}
	return nil
}

// ValidateActionID checks the id against the action catalog.
func ValidateActionID(id string) error {
	if _, ok := analysis.LookupAction(analysis.ActionID(id)); !ok {
		return errs.Invalid("unknown action %q", id)
	}
	return nil
}

// ValidateMaterialID checks the id looks like a generated material id.
func ValidateMaterialID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.Invalid("invalid material id %q", id)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
