package ir

// Version constants for persisted records.
const (
	// JournalVersion is the schema version of journaled actions.
	JournalVersion = "1"

	// AppVersion is the times release version.
	AppVersion = "0.3.0"
)
