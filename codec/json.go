package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Checkpoint headers and run metadata are map-like structures for which
// JSON is stable and portable. Numeric state that must survive a
// round-trip bit-exactly (live points, posterior rows, generator state)
// is stored in binary sections instead and never passes through the
// codec.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written checkpoints. Existing
// files record their codec name and are opened by name.
var Default Codec = JSON{}
