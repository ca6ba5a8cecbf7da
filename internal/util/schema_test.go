package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleArgs struct {
	Filename string `json:"filename" jsonschema:"description=Name of the file"`
	Content  string `json:"content,omitempty" jsonschema:"description=Optional body"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(sampleArgs{})

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "filename")
	assert.Contains(t, props, "content")

	// Required excludes omitempty fields.
	req := requiredFields(schema)
	assert.Contains(t, req, "filename")
	assert.NotContains(t, req, "content")

	// Reflection metadata stripped.
	assert.NotContains(t, schema, "$schema")
	assert.NotContains(t, schema, "$id")
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema(42)
	assert.NotNil(t, schema["properties"])
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror the JSON decoded schema shape
		"required": []any{"x"},
	}

	// Success
	err := ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// JSON numbers arrive as float64
	err = ValidateParameters(map[string]any{"x": 5.0}, schema)
	assert.NoError(t, err)

	// Missing required
	err = ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Equal(t, "x", vErr.Field)
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	// Wrong type
	err = ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Contains(t, vErr.Message, "expected type integer")
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("I am {{.Name}}.", map[string]any{"Name": "myagent"})
	assert.NoError(t, err)
	assert.Equal(t, "I am myagent.", out)

	// Fast path: no markers, data ignored.
	out, err = RenderTemplate("static text", nil)
	assert.NoError(t, err)
	assert.Equal(t, "static text", out)
}
