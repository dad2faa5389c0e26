package repair

import (
	"errors"
	"fmt"
)

// Record errors raised while deduplicating a parsed dataset.
var (
	ErrRecordNotObject = errors.New("record is not a JSON object")
	ErrRecordMissingID = errors.New("record has no identifier field")
	ErrUnkeyableID     = errors.New("record identifier is not a comparable scalar")
)

// Seen tracks identifier values that already made it into the output.
// Identifiers compare by exact decoded value: the numbers 1 and 1.0 collide
// because both decode to the same float64, while the string "1" stays
// separate from the number 1.
type Seen map[interface{}]struct{}

// NewSeen returns an empty identifier set.
func NewSeen() Seen {
	return make(Seen)
}

// Has reports whether id was recorded.
func (s Seen) Has(id interface{}) bool {
	_, ok := s[id]

	return ok
}

// Add records id.
func (s Seen) Add(id interface{}) {
	s[id] = struct{}{}
}

// IDKey returns the set key for an identifier value. Scalars (string,
// float64, bool, null) key as themselves; objects and arrays cannot be keyed.
func IDKey(id interface{}) (interface{}, bool) {
	switch id.(type) {
	case nil, string, float64, bool:
		return id, true
	default:
		return nil, false
	}
}

// Dedupe filters records in order, keeping the first record for each
// identifier. Every record must be an object carrying a keyable identifier;
// the first offender aborts the whole pass with its position in the error.
// Kept identifiers are added to seen as the pass goes.
func Dedupe(records []interface{}, idField string, seen Seen) ([]map[string]interface{}, int, error) {
	unique := make([]map[string]interface{}, 0, len(records))
	dropped := 0

	for i, raw := range records {
		record, ok := raw.(map[string]interface{})
		if !ok {
			return nil, 0, fmt.Errorf("%w: record[%d] is %T", ErrRecordNotObject, i, raw)
		}

		id, present := record[idField]
		if !present {
			return nil, 0, fmt.Errorf("%w: record[%d] has no %q", ErrRecordMissingID, i, idField)
		}

		key, keyable := IDKey(id)
		if !keyable {
			return nil, 0, fmt.Errorf("%w: record[%d] %s is %T", ErrUnkeyableID, i, idField, id)
		}

		if seen.Has(key) {
			dropped++

			continue
		}

		seen.Add(key)
		unique = append(unique, record)
	}

	return unique, dropped, nil
}
