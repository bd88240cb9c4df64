package exam

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MaxDiameter is the largest pupil diameter, in mm, accepted as a
// measurement. Larger values are treated as entry errors.
const MaxDiameter = 15.0

// Diameter is a pupil diameter in millimetres that may be absent.
// The zero value is absent.
type Diameter struct {
	mm    float64
	valid bool
}

// MM returns a present diameter. Values outside (0, MaxDiameter], NaN
// included, are treated as absent.
func MM(v float64) Diameter {
	if math.IsNaN(v) || v <= 0 || v > MaxDiameter {
		return Diameter{}
	}
	return Diameter{mm: v, valid: true}
}

// ParseDiameter parses free text the way a form field would hand it over.
// Blank, malformed and out of range input yields an absent diameter.
func ParseDiameter(s string) Diameter {
	s = strings.TrimSpace(s)
	if s == "" {
		return Diameter{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Diameter{}
	}
	return MM(v)
}

// Value returns the diameter and whether it is present.
func (d Diameter) Value() (float64, bool) {
	return d.mm, d.valid
}

// Ptr returns nil for an absent diameter.
func (d Diameter) Ptr() *float64 {
	if !d.valid {
		return nil
	}
	v := d.mm
	return &v
}

func (d Diameter) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.mm)
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else decodes
// to an absent diameter rather than failing the whole snapshot.
func (d *Diameter) UnmarshalJSON(data []byte) error {
	*d = Diameter{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*d = ParseDiameter(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*d = MM(v)
	return nil
}

// Flag is a boolean finding. Missing or falsy input is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	*f = Flag(truthy(data))
	return nil
}

func truthy(data []byte) bool {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		return true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1", "on":
			return true
		}
		return false
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return false
		}
		return n != 0
	}
}

// Tri is a three-valued finding: recorded present, recorded absent, or not
// examined. Unset and False mean different things clinically.
type Tri int8

const (
	Unset Tri = iota
	True
	False
)

// TriOf converts a plain bool into a recorded tri-state.
func TriOf(b bool) Tri {
	if b {
		return True
	}
	return False
}

func (t Tri) IsSet() bool   { return t != Unset }
func (t Tri) IsTrue() bool  { return t == True }
func (t Tri) IsFalse() bool { return t == False }

// Value returns true, false or nil.
func (t Tri) Value() any {
	switch t {
	case True:
		return true
	case False:
		return false
	}
	return nil
}

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unset"
}

func (t Tri) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

func (t *Tri) UnmarshalJSON(data []byte) error {
	*t = Unset
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*t = True
	case bytes.Equal(data, []byte("false")):
		*t = False
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y":
			*t = True
		case "false", "no", "n":
			*t = False
		}
	}
	return nil
}

// decodeEnum reads a JSON string leniently; non-strings decode to "".
func decodeEnum(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}
