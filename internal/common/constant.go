package common

const (
	// MaxRetries is the number of delivery attempts a queued sync
	// operation gets before it is pruned.
	MaxRetries = 5

	// MaxBackups caps the diary/folder snapshot ring buffer.
	MaxBackups = 10

	// MaxSyncHistory caps the stored drain-pass history.
	MaxSyncHistory = 50
)
