package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/sightline-lab/project-sightline/internal/core/session"
)

// marshalRecordJSON marshals a record's list fields to JSON for the jsonb
// columns. Nil slices produce nil (SQL NULL) rather than the string "null".
func marshalRecordJSON(rec *session.Record) (productsJSON, actionsJSON []byte, err error) {
	if len(rec.ProductsViewed) > 0 {
		productsJSON, err = json.Marshal(rec.ProductsViewed)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal products_viewed: %w", err)
		}
	}

	if len(rec.Actions) > 0 {
		actionsJSON, err = json.Marshal(rec.Actions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal actions: %w", err)
		}
	}

	return productsJSON, actionsJSON, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans a database row into a Record.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanRecordRow(row scanner) (*session.Record, error) {
	var rec session.Record
	var productsJSON, actionsJSON []byte

	err := row.Scan(
		&rec.CustomerID,
		&rec.SessionTimestamp,
		&rec.SessionDurationSeconds,
		&rec.PagesViewed,
		&productsJSON,
		&actionsJSON,
		&rec.DeviceType,
		&rec.Converted,
		&rec.CartValue,
		&rec.Referrer,
		&rec.Browser,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session row: %w", err)
	}

	if len(productsJSON) > 0 {
		if err := json.Unmarshal(productsJSON, &rec.ProductsViewed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products_viewed: %w", err)
		}
	}

	if len(actionsJSON) > 0 {
		if err := json.Unmarshal(actionsJSON, &rec.Actions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
		}
	}

	return &rec, nil
}
