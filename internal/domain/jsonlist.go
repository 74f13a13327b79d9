package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringList decodes a JSONB []string column. Malformed or empty payloads
// decode to nil rather than an error; these columns are engine-written and
// a bad value should degrade to "no data", not break reads.
func StringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// JSONList encodes a []string for a JSONB column. nil encodes as [].
func JSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
