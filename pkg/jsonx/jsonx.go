// Package jsonx provides the JSON codec and the lenient decoders used by the
// repair pipeline.
package jsonx

import (
	"errors"
	"fmt"

	"github.com/hjson/hjson-go/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/tailscale/hujson"
)

// JSON is the codec shared by every component. It is drop-in compatible with
// encoding/json, so untyped records decode to map[string]interface{} with
// float64 numbers.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode errors.
var (
	ErrNotArray = errors.New("document is not a JSON array")
)

// DecodeArray parses text as a strict JSON array of arbitrary values.
// A document that parses but is not an array (object, string, null) is
// rejected with ErrNotArray.
func DecodeArray(text string) ([]interface{}, error) {
	var doc interface{}
	if err := JSON.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}

	records, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotArray, doc)
	}

	return records, nil
}

// EncodeArrayIndent renders records as a pretty-printed JSON array with
// two-space indentation.
func EncodeArrayIndent(records interface{}) (string, error) {
	out, err := JSON.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}

	return string(out), nil
}

// Standardize rewrites almost-JSON (trailing commas, comments) into strict
// JSON. When the input cannot be standardized it is returned unchanged and
// ok is false, so callers can move on to the next strategy.
func Standardize(text string) (string, bool) {
	std, err := hujson.Standardize([]byte(text))
	if err != nil {
		return text, false
	}

	return string(std), true
}

// LenientDecodeArray parses human-edited JSON variants (unquoted keys,
// missing commas, comments) and requires an array result. Anything that
// decodes to a non-array is rejected with ErrNotArray so that plain prose
// never counts as a successful parse.
func LenientDecodeArray(text string) ([]interface{}, error) {
	var doc interface{}
	if err := hjson.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}

	// Transcode through the strict codec so records come out in the same
	// shapes the strict decoder produces, independent of hjson's internal
	// map representation.
	normalized, err := JSON.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize lenient parse: %w", err)
	}

	return DecodeArray(string(normalized))
}
