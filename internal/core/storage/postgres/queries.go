package postgres

// SQL for session record storage. Records are write-once: the insert uses
// ON CONFLICT DO NOTHING on the (customer_id, session_timestamp) key and
// no UPDATE statement exists anywhere in this package.

const (
	// querySaveRecord inserts one session record.
	// Zero rows affected means the key already exists (duplicate).
	querySaveRecord = `
		INSERT INTO sessions (
			customer_id, session_timestamp, session_duration_seconds,
			pages_viewed, products_viewed, actions, device_type,
			converted, cart_value, referrer, browser
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (customer_id, session_timestamp) DO NOTHING
	`

	// querySessionsForCustomer is the partition lookup: every record for
	// one customer, ordered by session timestamp ascending.
	querySessionsForCustomer = `
		SELECT
			customer_id, session_timestamp, session_duration_seconds,
			pages_viewed, products_viewed, actions, device_type,
			converted, cart_value, referrer, browser
		FROM sessions
		WHERE customer_id = $1
		ORDER BY session_timestamp ASC
	`

	// queryScanRecords is the bounded fleet scan. No ORDER BY: on a large
	// table this reads whatever the planner returns first, a deliberate
	// bounded-sample approximation.
	queryScanRecords = `
		SELECT
			customer_id, session_timestamp, session_duration_seconds,
			pages_viewed, products_viewed, actions, device_type,
			converted, cart_value, referrer, browser
		FROM sessions
		LIMIT $1
	`
)
