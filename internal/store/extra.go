package store

import "encoding/json"

// splitExtra unmarshals data into a raw key/value map, removes every
// key in known, and returns what's left so a type's UnmarshalJSON can
// stash it for a later round-trip. This is what lets State, App, and
// Profile preserve fields a future or past version of this library
// wrote that the current version doesn't recognize.
func splitExtra(data []byte, known ...string) (map[string]json.RawMessage, error) {
	raw := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// mergeExtra folds extra's entries into fields, the set of known
// fields already marshaled for a type, then marshals the result.
// Map keys serialize in sorted order under encoding/json, which
// satisfies the "stable key ordering within each object" requirement
// without any extra bookkeeping here.
func mergeExtra(fields map[string]json.RawMessage, extra map[string]json.RawMessage) ([]byte, error) {
	for k, v := range extra {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}
