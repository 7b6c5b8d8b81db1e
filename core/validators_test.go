package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedThing struct {
	Name  string  `json:"name" validate:"required,notblank"`
	Note  *string `json:"note" validate:"omitempty,notblank"`
	Level string  `json:"level" validate:"level"`
}

func TestTranslateValidationErrors(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	RegisterEnum(validate, translator, "level", "low", "high")

	blank := "   "
	tests := []struct {
		name       string
		thing      validatedThing
		wantFields map[string]string
	}{
		{name: "valid", thing: validatedThing{Name: "x", Level: "low"}},
		{
			name:  "all invalid",
			thing: validatedThing{Name: "", Note: &blank, Level: "mid"},
			wantFields: map[string]string{
				"name":  "this field is required",
				"note":  "this field cannot be blank",
				"level": "must be one of: low, high",
			},
		},
		{
			name:       "blank name",
			thing:      validatedThing{Name: "  ", Level: "high"},
			wantFields: map[string]string{"name": "this field cannot be blank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TranslateValidationErrors(validate.Struct(tt.thing), translator)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			vErr, ok := err.(*ValidationError)
			require.True(t, ok, "got %T", err)
			got := make(map[string]string, len(vErr.Fields))
			for _, f := range vErr.Fields {
				got[f.Field] = f.Error
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}
