package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	TemplateID   string `validate:"omitempty,template_id"`
	OutputFormat string `validate:"omitempty,output_format"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	RegisterResumeValidators(v)
	return v
}

func TestTemplateIDValidation(t *testing.T) {
	v := newValidator(t)

	valid := []string{"classic", "modern-2", "my_template", "a1"}
	for _, id := range valid {
		assert.NoError(t, v.Struct(probe{TemplateID: id}), id)
	}

	invalid := []string{
		"Classic",         // uppercase
		"1classic",        // leading digit
		"a",               // too short
		"../etc/passwd",   // path traversal
		"has space",       // whitespace
		"way-too-long-template-id-over-32-chars",
	}
	for _, id := range invalid {
		assert.Error(t, v.Struct(probe{TemplateID: id}), id)
	}
}

func TestOutputFormatValidation(t *testing.T) {
	v := newValidator(t)

	for _, f := range []string{"rendered", "source", "both"} {
		assert.NoError(t, v.Struct(probe{OutputFormat: f}), f)
	}
	for _, f := range []string{"pdf", "docx", "BOTH"} {
		assert.Error(t, v.Struct(probe{OutputFormat: f}), f)
	}
}

func TestEmptyFieldsAreOptional(t *testing.T) {
	v := newValidator(t)
	require.NoError(t, v.Struct(probe{}))
}
