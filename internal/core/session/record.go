package session

import (
	"github.com/shopspring/decimal"
)

// Known action tags. Entries outside this vocabulary are dropped by the
// validator rather than rejected, so upstream producers can evolve their
// action sets without coordinated deploys.
const (
	ActionBrowse           = "browse"
	ActionSearch           = "search"
	ActionViewProduct      = "view_product"
	ActionAddToCart        = "add_to_cart"
	ActionRemoveFromCart   = "remove_from_cart"
	ActionStartCheckout    = "start_checkout"
	ActionCompletePurchase = "complete_purchase"
)

// ActionVocabulary is the fixed set of recognized action tags.
var ActionVocabulary = map[string]struct{}{
	ActionBrowse:           {},
	ActionSearch:           {},
	ActionViewProduct:      {},
	ActionAddToCart:        {},
	ActionRemoveFromCart:   {},
	ActionStartCheckout:    {},
	ActionCompletePurchase: {},
}

// Device types reported by upstream trackers.
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
	DeviceTablet  = "tablet"
)

// Record is one logged customer interaction window.
//
// (CustomerID, SessionTimestamp) is the record's unique key within the
// store. A record is written once by the upstream ingestion collaborator
// and never mutated or deleted afterwards.
type Record struct {
	// CustomerID identifies the customer. Required, non-empty.
	CustomerID string `json:"customer_id"`

	// SessionTimestamp is the session start in epoch seconds. Required;
	// combined with CustomerID it forms the record's unique key.
	SessionTimestamp int64 `json:"session_timestamp"`

	SessionDurationSeconds int64 `json:"session_duration_seconds"`
	PagesViewed            int64 `json:"pages_viewed"`

	// ProductsViewed is the ordered sequence of product identifiers seen
	// during the session. May be empty.
	ProductsViewed []string `json:"products_viewed"`

	// Actions holds the session's action tags, filtered against
	// ActionVocabulary by the validator.
	Actions []string `json:"actions"`

	DeviceType string `json:"device_type"`

	// Converted is true iff a purchase was completed in this session.
	Converted bool `json:"converted"`

	// CartValue is the session's cart amount. It is independent of
	// Converted: a non-converted session may still carry a nonzero cart
	// value (items left in cart). Conventionally zero for pure browse
	// sessions.
	CartValue decimal.Decimal `json:"cart_value"`

	Referrer string `json:"referrer,omitempty"`
	Browser  string `json:"browser,omitempty"`
}
