package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, CategoryFileSystem, "cannot read document").
		WithContext("file", "docs/index.md").
		WithContext("index", 3).
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, "cannot read document", err.Message())
	assert.Equal(t, "[filesystem:error] cannot read document: permission denied", err.Error())
	require.ErrorIs(t, err, cause)

	file, ok := err.Context().GetString("file")
	require.True(t, ok)
	assert.Equal(t, "docs/index.md", file)
	_, ok = err.Context().GetString("index")
	assert.False(t, ok, "index is not a string")
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"config", ConfigError("bad"), CategoryConfig, SeverityFatal},
		{"contract", ContractError("nil context"), CategoryValidation, SeverityFatal},
		{"not found", NotFoundError("no such directory"), CategoryNotFound, SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, tt.severity, err.Severity())
			assert.Nil(t, err.Context())
		})
	}
}

func TestAsClassified_Wrapped(t *testing.T) {
	inner := ContractError("document has an empty path").WithContext("index", 2).Build()
	wrapped := fmt.Errorf("lint: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryValidation, got.Category())
	idx, _ := got.Context().Get("index")
	assert.Equal(t, 2, idx)

	assert.True(t, HasCategory(wrapped, CategoryValidation))
	assert.False(t, HasCategory(wrapped, CategoryConfig))
	assert.False(t, HasCategory(errors.New("plain"), CategoryInternal))

	_, ok = AsClassified(errors.New("plain"))
	assert.False(t, ok)
}

func TestClassifiedError_Is(t *testing.T) {
	a := NewError(CategoryGit, "not inside a git work tree").WithContext("path", "/a").Build()
	b := NewError(CategoryGit, "not inside a git work tree").WithContext("path", "/b").Build()
	c := NewError(CategoryConfig, "not inside a git work tree").Build()

	assert.ErrorIs(t, fmt.Errorf("status: %w", a), b)
	assert.NotErrorIs(t, a, c)
}
