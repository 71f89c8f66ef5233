package session

import (
	"encoding/json"
	"math"

	cerrors "github.com/sightline-lab/project-sightline/internal/core/errors"
	"github.com/shopspring/decimal"
)

// Validate normalizes one untyped candidate record into a Record.
// It is a pure function: no side effects, no store access.
//
// customer_id and session_timestamp are required; everything else defaults
// to its zero value when absent. Numeric fields coerce from numeric-like
// input (JSON float64, Go ints, json.Number, decimal strings) and fail with
// a wrong-type ValidationError when non-numeric or negative. Action tags
// outside ActionVocabulary are dropped silently.
func Validate(raw map[string]interface{}) (*Record, error) {
	rec := &Record{CartValue: decimal.Zero}

	v, ok := raw["customer_id"]
	if !ok {
		return nil, cerrors.MissingField("customer_id")
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return nil, cerrors.WrongType("customer_id", "must be a non-empty string")
	}
	rec.CustomerID = id

	v, ok = raw["session_timestamp"]
	if !ok {
		return nil, cerrors.MissingField("session_timestamp")
	}
	ts, ok := intFromAny(v)
	if !ok {
		return nil, cerrors.WrongType("session_timestamp", "must be an integer (epoch seconds)")
	}
	rec.SessionTimestamp = ts

	var err error
	if rec.SessionDurationSeconds, err = nonNegativeInt(raw, "session_duration_seconds"); err != nil {
		return nil, err
	}
	if rec.PagesViewed, err = nonNegativeInt(raw, "pages_viewed"); err != nil {
		return nil, err
	}

	if v, ok := raw["cart_value"]; ok {
		d, ok := decimalFromAny(v)
		if !ok {
			return nil, cerrors.WrongType("cart_value", "must be a non-negative number")
		}
		if d.IsNegative() {
			return nil, cerrors.WrongType("cart_value", "must be a non-negative number")
		}
		rec.CartValue = d
	}

	if rec.ProductsViewed, err = stringList(raw, "products_viewed"); err != nil {
		return nil, err
	}

	actions, err := stringList(raw, "actions")
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		if _, known := ActionVocabulary[a]; known {
			rec.Actions = append(rec.Actions, a)
		}
	}

	if rec.DeviceType, err = optionalString(raw, "device_type"); err != nil {
		return nil, err
	}
	if rec.Referrer, err = optionalString(raw, "referrer"); err != nil {
		return nil, err
	}
	if rec.Browser, err = optionalString(raw, "browser"); err != nil {
		return nil, err
	}

	// Missing or null converted defaults to false. A false converted flag
	// with a nonzero cart value is an accepted state (items left in cart).
	if v, ok := raw["converted"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return nil, cerrors.WrongType("converted", "must be a boolean")
		}
		rec.Converted = b
	}

	return rec, nil
}

func nonNegativeInt(raw map[string]interface{}, field string) (int64, error) {
	v, ok := raw[field]
	if !ok {
		return 0, nil
	}
	n, ok := intFromAny(v)
	if !ok || n < 0 {
		return 0, cerrors.WrongType(field, "must be a non-negative integer")
	}
	return n, nil
}

// intFromAny coerces numeric-like input to int64. JSON numbers arrive as
// float64; integral values only, so 3.5 pages_viewed is rejected.
func intFromAny(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// decimalFromAny coerces numeric-like input to an exact decimal. Decimal
// strings are accepted because currency amounts round-trip through systems
// that serialize them as strings to avoid binary float drift.
func decimalFromAny(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat(float64(n)), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

func stringList(raw map[string]interface{}, field string) ([]string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		var out []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	}
	return nil, cerrors.WrongType(field, "must be a list of strings")
}

func optionalString(raw map[string]interface{}, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", cerrors.WrongType(field, "must be a string")
	}
	return s, nil
}
