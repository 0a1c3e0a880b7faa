package store

import "errors"

// Sentinel errors of the durable queue stores.
var (
	// ErrCorruptQueueState is returned by Load when the stored queue cannot be
	// decoded. Callers treat it as an empty queue.
	ErrCorruptQueueState = errors.New("stored queue state is corrupt")

	// ErrIncompatibleQueueVersion is returned by Load when the stored queue
	// was written by an unknown schema version.
	ErrIncompatibleQueueVersion = errors.New("stored queue state has incompatible version")

	// ErrUnknownQueueDriver is returned by NewQueueStore for a driver name
	// other than "file" or "sqlite".
	ErrUnknownQueueDriver = errors.New("unknown queue driver")
)

// Sentinel errors of the receipts repository.
var (
	// ErrReceiptNotFound is returned when no receipt matches the operation id.
	ErrReceiptNotFound = errors.New("receipt was not found")

	// ErrStorageUnavailable wraps database failures classified as retryable
	// (connection loss, serialization failure, deadlock).
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing a transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when a DML statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
