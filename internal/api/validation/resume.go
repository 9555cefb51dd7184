package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"resumeforge/pkg/models"
)

// TemplateIDPattern restricts template ids to safe tokens
var TemplateIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,31}$`)

// ValidateTemplateID ensures a template id is a safe token
func ValidateTemplateID(fl validator.FieldLevel) bool {
	return TemplateIDPattern.MatchString(fl.Field().String())
}

// ValidateOutputFormat ensures the format selector is one of the known values
func ValidateOutputFormat(fl validator.FieldLevel) bool {
	return models.OutputFormat(fl.Field().String()).Valid()
}

// RegisterResumeValidators registers all resume-related custom validators
func RegisterResumeValidators(v *validator.Validate) {
	v.RegisterValidation("template_id", ValidateTemplateID)
	v.RegisterValidation("output_format", ValidateOutputFormat)
}
