package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
)

// Value is a tagged cell value. Prediction fields and ground-truth cells are
// loosely typed at the source (JSON on one side, spreadsheet cells on the
// other), so the engine carries them as explicit tagged values instead of
// interface{} assertions scattered through the comparison logic.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Text  string
}

// Null returns the null Value.
func Null() Value { return Value{Kind: KindNull} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue returns a floating-point Value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// IsNull reports whether the value is null. Empty text is treated as null:
// spreadsheet cells that were cleared rather than deleted come through as
// empty strings.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || (v.Kind == KindText && v.Text == "")
}

// Binary coerces the value into the canonical {0, 1} domain. It never fails:
// null and text map to 0, booleans map directly, numbers map to 1 only when
// strictly positive. This is the single unification point between untyped
// ground-truth cells and the engine's binary comparisons.
func (v Value) Binary() int {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindInt:
		if v.Int > 0 {
			return 1
		}
		return 0
	case KindFloat:
		if v.Float > 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// String renders the value for categorical comparison and display.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		// Whole floats print without a decimal point so that a cell holding
		// 1.0 compares equal to a prediction of "1".
		if v.Float == math.Trunc(v.Float) && !math.IsInf(v.Float, 0) {
			return strconv.FormatInt(int64(v.Float), 10)
		}
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return v.Text
	}
}

// UnmarshalJSON decodes a JSON scalar into a tagged Value. Numbers with no
// fractional part become KindInt; anything unrepresentable is an error rather
// than a silent zero, since predictions are machine-produced and a non-scalar
// field means the producer changed shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = Null()
	case bool:
		*v = BoolValue(t)
	case string:
		*v = TextValue(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			*v = IntValue(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("model: number %q not representable", t.String())
		}
		*v = FloatValue(f)
	default:
		return fmt.Errorf("model: expected scalar value, got %T", raw)
	}
	return nil
}

// MarshalJSON encodes the tagged Value back to its JSON scalar form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindFloat:
		return json.Marshal(v.Float)
	default:
		return json.Marshal(v.Text)
	}
}
