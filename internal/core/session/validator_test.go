package session

import (
	"errors"
	"testing"

	cerrors "github.com/sightline-lab/project-sightline/internal/core/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidate_FullRecord(t *testing.T) {
	raw := map[string]interface{}{
		"customer_id":              "CUST0001",
		"session_timestamp":        float64(1700000000),
		"session_duration_seconds": float64(340),
		"pages_viewed":             float64(7),
		"products_viewed":          []interface{}{"PROD001", "PROD002"},
		"actions":                  []interface{}{"browse", "view_product", "add_to_cart", "complete_purchase"},
		"device_type":              "mobile",
		"converted":                true,
		"cart_value":               149.99,
		"referrer":                 "google",
		"browser":                  "chrome",
	}

	rec, err := Validate(raw)
	require.NoError(t, err)
	require.Equal(t, "CUST0001", rec.CustomerID)
	require.Equal(t, int64(1700000000), rec.SessionTimestamp)
	require.Equal(t, int64(340), rec.SessionDurationSeconds)
	require.Equal(t, int64(7), rec.PagesViewed)
	require.Equal(t, []string{"PROD001", "PROD002"}, rec.ProductsViewed)
	require.Equal(t, []string{"browse", "view_product", "add_to_cart", "complete_purchase"}, rec.Actions)
	require.Equal(t, "mobile", rec.DeviceType)
	require.True(t, rec.Converted)
	require.True(t, decimal.RequireFromString("149.99").Equal(rec.CartValue))
	require.Equal(t, "google", rec.Referrer)
	require.Equal(t, "chrome", rec.Browser)
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]interface{}
		wantField string
		wantKind  cerrors.ValidationErrorKind
	}{
		{
			name:      "missing customer_id",
			raw:       map[string]interface{}{"session_timestamp": float64(1700000000)},
			wantField: "customer_id",
			wantKind:  cerrors.KindMissingField,
		},
		{
			name: "empty customer_id",
			raw: map[string]interface{}{
				"customer_id":       "",
				"session_timestamp": float64(1700000000),
			},
			wantField: "customer_id",
			wantKind:  cerrors.KindWrongType,
		},
		{
			name:      "missing session_timestamp",
			raw:       map[string]interface{}{"customer_id": "CUST0001"},
			wantField: "session_timestamp",
			wantKind:  cerrors.KindMissingField,
		},
		{
			name: "non-numeric session_timestamp",
			raw: map[string]interface{}{
				"customer_id":       "CUST0001",
				"session_timestamp": "yesterday",
			},
			wantField: "session_timestamp",
			wantKind:  cerrors.KindWrongType,
		},
		{
			name: "fractional session_timestamp",
			raw: map[string]interface{}{
				"customer_id":       "CUST0001",
				"session_timestamp": 1700000000.5,
			},
			wantField: "session_timestamp",
			wantKind:  cerrors.KindWrongType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.raw)
			require.Error(t, err)

			var verr *cerrors.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.wantField, verr.Field)
			require.Equal(t, tc.wantKind, verr.Kind)
		})
	}
}

func TestValidate_NumericFieldFailures(t *testing.T) {
	base := func() map[string]interface{} {
		return map[string]interface{}{
			"customer_id":       "CUST0001",
			"session_timestamp": float64(1700000000),
		}
	}

	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"negative duration", "session_duration_seconds", float64(-1)},
		{"non-numeric pages", "pages_viewed", "seven"},
		{"negative cart value", "cart_value", -0.01},
		{"non-numeric cart value", "cart_value", "a lot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := base()
			raw[tc.field] = tc.value

			_, err := Validate(raw)
			var verr *cerrors.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.field, verr.Field)
			require.Equal(t, cerrors.KindWrongType, verr.Kind)
		})
	}
}

func TestValidate_NumericCoercion(t *testing.T) {
	rec, err := Validate(map[string]interface{}{
		"customer_id":       "CUST0001",
		"session_timestamp": int64(1700000000),
		"pages_viewed":      3,
		"cart_value":        "33.333",
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), rec.PagesViewed)
	require.True(t, decimal.RequireFromString("33.333").Equal(rec.CartValue))
}

func TestValidate_UnknownActionsDropped(t *testing.T) {
	rec, err := Validate(map[string]interface{}{
		"customer_id":       "CUST0001",
		"session_timestamp": float64(1700000000),
		"actions":           []interface{}{"browse", "teleport", "search", "refund"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"browse", "search"}, rec.Actions)
}

func TestValidate_Defaults(t *testing.T) {
	rec, err := Validate(map[string]interface{}{
		"customer_id":       "CUST0042",
		"session_timestamp": float64(1700000000),
	})
	require.NoError(t, err)
	require.False(t, rec.Converted)
	require.True(t, rec.CartValue.IsZero())
	require.Zero(t, rec.SessionDurationSeconds)
	require.Zero(t, rec.PagesViewed)
	require.Empty(t, rec.ProductsViewed)
	require.Empty(t, rec.Actions)
}

func TestValidate_ConvertedFalseWithCartValue(t *testing.T) {
	// Accepted edge case: items left in cart without a completed purchase.
	rec, err := Validate(map[string]interface{}{
		"customer_id":       "CUST0042",
		"session_timestamp": float64(1700000000),
		"converted":         false,
		"cart_value":        88.50,
	})
	require.NoError(t, err)
	require.False(t, rec.Converted)
	require.True(t, decimal.RequireFromString("88.5").Equal(rec.CartValue))
}
