// Package normalize turns the free-form text returned by a generative model
// into an ordered list of note contents.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	interrors "github.com/streed/litewrite/internal/errors"
)

const fence = "```"

var arraySchema = mustSchema(`{"type":"array"}`)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return schema
}

// StripFences removes a single leading fence line and anything from the
// next fence onwards. This is a heuristic for the common ```json wrapper,
// not a markdown parser: a fence inside a string literal truncates too.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	text = text[len(fence):]
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	if end := strings.Index(text, fence); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// Parse extracts note contents from raw model output. The payload must be a
// single JSON array. String elements are returned as is, any other element
// as its compact JSON text. Errors wrap ErrMalformedAIOutput.
func Parse(raw string) ([]string, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", interrors.ErrMalformedAIOutput)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", interrors.ErrMalformedAIOutput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", interrors.ErrMalformedAIOutput)
	}

	result, err := arraySchema.Validate(gojsonschema.NewBytesLoader(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interrors.ErrMalformedAIOutput, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: expected a JSON array", interrors.ErrMalformedAIOutput)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(value, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", interrors.ErrMalformedAIOutput, err)
	}

	contents := make([]string, 0, len(elements))
	for _, el := range elements {
		var s string
		if err := json.Unmarshal(el, &s); err == nil {
			contents = append(contents, s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, el); err != nil {
			return nil, fmt.Errorf("%w: %v", interrors.ErrMalformedAIOutput, err)
		}
		contents = append(contents, buf.String())
	}
	return contents, nil
}
