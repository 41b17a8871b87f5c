package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidMarkdown(t *testing.T) {
	valid := []string{
		"plain text",
		"fixed [the bug](https://example.com/1)",
		"see ![diagram](https://example.com/d.png) and (notes)",
		"- item one\n- item two",
	}
	for _, s := range valid {
		assert.True(t, ValidMarkdown(s), s)
	}

	invalid := []string{
		"",
		"[unclosed",
		"(unbalanced",
		"[text](missing paren",
	}
	for _, s := range invalid {
		assert.False(t, ValidMarkdown(s), s)
	}
}

type standupInput struct {
	Yesterday string `json:"yesterday" validate:"required,max=10,markdown"`
	Status    string `json:"status" validate:"omitempty,standup_status"`
	Date      string `json:"date" validate:"omitempty,isodate"`
	Password  string `json:"password" validate:"omitempty,pwd"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	err := newValidator().Struct(standupInput{
		Yesterday: "[way too long text",
		Status:    "done",
		Date:      "2026/06/01",
		Password:  "short",
	})
	require.Error(t, err)

	got := map[string]string{}
	for _, d := range ToDetails(err) {
		got[d.Field] = d.Message
	}
	assert.Equal(t, "must be at most 10 characters long", got["yesterday"])
	assert.Equal(t, "must be one of: draft, submitted", got["status"])
	assert.Equal(t, "must be a date formatted as YYYY-MM-DD", got["date"])
	assert.Equal(t, "must be at least 8 characters long", got["password"])
}

func TestToDetails_Markdown(t *testing.T) {
	err := newValidator().Struct(standupInput{Yesterday: "[oops"})
	require.Error(t, err)
	details := ToDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, FieldError{Field: "yesterday", Message: "contains invalid markdown syntax"}, details[0])
}

func TestToDetails_JSONErrors(t *testing.T) {
	var dst struct {
		Page int `json:"page"`
	}
	err := json.Unmarshal([]byte(`{"page":"one"}`), &dst)
	assert.Equal(t, []FieldError{{Field: "page", Message: "must be a int"}}, ToDetails(err))

	err = json.Unmarshal([]byte(`{`), &dst)
	require.Error(t, err)
	assert.Len(t, ToDetails(err), 1)

	assert.Nil(t, ToDetails(nil))
}
