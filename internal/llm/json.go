package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError describes why model output could not be turned into JSON.
type ParseError struct {
	Reason  string
	Preview string
}

func (e *ParseError) Error() string {
	if e.Preview != "" {
		return fmt.Sprintf("extract JSON: %s (output starts %q)", e.Reason, e.Preview)
	}
	return "extract JSON: " + e.Reason
}

func newParseError(reason, text string) *ParseError {
	preview := text
	if len(preview) > 80 {
		preview = preview[:80]
	}
	return &ParseError{Reason: reason, Preview: preview}
}

// ExtractJSON locates and decodes the JSON value embedded in model output.
// It strips markdown code fences (```json ... ```) and slices from the
// first opening bracket to the matching last closing bracket, tolerating
// prose before and after. The single shared parser for every call site
// that consumes structured model output.
func ExtractJSON(text string, v interface{}) error {
	t := StripFences(text)
	if t == "" {
		return newParseError("empty output", text)
	}

	objStart := strings.IndexByte(t, '{')
	arrStart := strings.IndexByte(t, '[')
	start, end := -1, -1
	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		start = objStart
		end = strings.LastIndexByte(t, '}')
	case arrStart != -1:
		start = arrStart
		end = strings.LastIndexByte(t, ']')
	}
	if start == -1 || end <= start {
		return newParseError("no JSON value found", text)
	}

	if err := json.Unmarshal([]byte(t[start:end+1]), v); err != nil {
		return newParseError(err.Error(), text)
	}
	return nil
}

// StripFences removes a wrapping markdown code fence and optional language
// tag from model output. Text without fences passes through trimmed.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	t = strings.TrimLeft(t, "\n")
	if i := strings.Index(t, "```"); i != -1 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
