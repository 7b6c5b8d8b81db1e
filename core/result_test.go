package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	ok := Ok([]string{"a"})
	assert.True(t, ok.OK())
	assert.Empty(t, ok.Message())
	data, err := ok.Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, data)

	fail := Fail[[]string](errors.Wrap(errors.New("course not found"), "getting course"))
	assert.False(t, fail.OK())
	assert.Nil(t, fail.Data)
	assert.Equal(t, "getting course: course not found", fail.Message())

	assert.Error(t, Fail[int](nil).Err, "a failed result always carries an error")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "plain error", err: errors.New("boom"), want: "boom"},
		{
			name: "validation error with cause",
			err:  NewValidationError(errors.New("invalid credentials")),
			want: "invalid credentials",
		},
		{
			name: "validation error with fields",
			err: NewValidationError(nil,
				FieldError{Field: "name", Error: "this field is required"},
				FieldError{Field: "due_date", Error: "this field is required"},
			),
			want: "name: this field is required; due_date: this field is required",
		},
		{
			name: "wrapped validation error",
			err:  errors.Wrap(NewValidationError(nil, FieldError{Field: "email", Error: "taken"}), "signing up"),
			want: "email: taken",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
