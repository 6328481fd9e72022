package repository

import "encoding/json"

// decodeStringList unmarshals a JSON string-array column, returning an
// empty slice for NULL or malformed values so responses always carry
// an array.
func decodeStringList(b []byte) []string {
	if len(b) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return []string{}
	}
	return out
}
