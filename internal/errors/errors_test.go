package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{name: "runtime error", code: "E002", wantMsg: "Reactive propagation too deep", wantCat: CategoryRuntime},
		{name: "dom error", code: "E040", wantMsg: "Property is read-only", wantCat: CategoryDOM},
		{name: "protocol error", code: "E060", wantMsg: "Malformed client frame", wantCat: CategoryProtocol},
		{name: "unknown error code", code: "E999", wantMsg: "Unknown error", wantCat: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.wantCat, err.Category)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New("E002")
	err := fmt.Errorf("propagating: %w", New("E002").WithDetail("effect 7"))

	assert.True(t, stderrors.Is(err, sentinel))
	assert.False(t, stderrors.Is(err, New("E003")))
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E003").Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "E003: Effect panicked: boom", err.Error())
}

func TestFromPanic(t *testing.T) {
	cause := stderrors.New("inner")

	assert.ErrorIs(t, FromPanic("E003", cause), cause)
	assert.Contains(t, FromPanic("E003", "string panic").Error(), "string panic")
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil, "E100"))

	existing := New("E101")
	assert.Same(t, existing, FromError(existing, "E100"))

	wrapped := FromError(stderrors.New("bad json"), "E100")
	assert.Equal(t, "E100", wrapped.Code)
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").
		WithLocation("fuse.json", 0, 0).
		WithSuggestion("Use a port like 3000")

	out := err.Format()
	assert.Contains(t, out, "ERROR E101: Invalid port")
	assert.Contains(t, out, "fuse.json")
	assert.Contains(t, out, "Hint: Use a port like 3000")
	assert.Contains(t, out, "https://fuse.dev/docs/errors/E101")

	assert.Equal(t, "fuse.json: E101: Invalid port", err.FormatCompact())
}

func TestFormatJSON(t *testing.T) {
	err := New("E060").Wrap(stderrors.New("unexpected EOF"))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(err.FormatJSON()), &decoded))
	assert.Equal(t, "E060", decoded["code"])
	assert.Equal(t, "protocol", decoded["category"])
	assert.Equal(t, "unexpected EOF", decoded["cause"])
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, stderrors.New("plain failure"))
	assert.Equal(t, "\nERROR: plain failure\n\n", b.String())

	b.Reset()
	Fprint(&b, New("E140"))
	assert.Contains(t, b.String(), "ERROR E140:")
	assert.NotContains(t, b.String(), "\033[")
}

func TestFprintJSON(t *testing.T) {
	var b strings.Builder
	FprintJSON(&b, stderrors.New("plain failure"))
	FprintJSON(&b, New("E141"))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "cli", first["category"])
	assert.Equal(t, "plain failure", first["message"])
	assert.Equal(t, "E141", second["code"])
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 40), 20)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Nil(t, wrapText("", 10))
}

func TestRegistryCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}

	tmpl, ok := GetTemplate("E141")
	require.True(t, ok)
	assert.Equal(t, CategoryCLI, tmpl.Category)

	_, ok = GetTemplate("E998")
	assert.False(t, ok)
}
