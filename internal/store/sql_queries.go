package store

// SQLite queue store statements.
const (
	selectQueueSchemaVersion = `SELECT schema_version FROM queue_meta WHERE id = 1;`

	selectPendingOperations = `SELECT id, kind, payload, enqueued_at, retry_count, approximate_size
		FROM pending_operations
		ORDER BY position;`

	deletePendingOperations = `DELETE FROM pending_operations;`

	insertPendingOperation = `INSERT INTO pending_operations (
			position,
			id,
			kind,
			payload,
			enqueued_at,
			retry_count,
			approximate_size
		) VALUES (?, ?, ?, ?, ?, ?, ?);`
)

const receiptsTable = "receipts"

var receiptColumns = []string{"operation_id", "kind", "payload", "trace_id", "received_at"}
