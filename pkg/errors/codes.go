package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodeHeaderReadFailure occurs when the system cannot read the header
	// portion of a segment file. Headers contain critical metadata about the
	// segment's structure, so header read failures prevent access to the
	// entire segment and all data it contains.
	ErrorCodeHeaderReadFailure ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodePayloadReadFailure indicates problems reading the actual data
	// content from segment files after successfully reading the header. This
	// represents a more localized failure compared to header problems, as the
	// segment structure is intact but specific data regions are inaccessible.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeFailToUpdateIndex indicates a write was appended to a
	// segment but the in-memory keydir could not be updated to match,
	// leaving the two out of sync until the next restart replays the log.
	ErrorCodeFailToUpdateIndex ErrorCode = "FAIL_TO_UPDATE_INDEX"

	// ErrorCodeRecoveryFailed indicates that the storage system's attempt to
	// recover from a previous failure was unsuccessful. This represents a
	// compound failure where both the original problem and the recovery
	// mechanism have failed, creating a more serious operational situation.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"

	// ErrorCodeDataFileNotFound indicates a segment file the keydir points at
	// is missing from the data directory, e.g. after manual tampering.
	ErrorCodeDataFileNotFound ErrorCode = "DATA_FILE_NOT_FOUND"

	// ErrorCodeInvalidDatabasePath indicates the configured database
	// directory cannot be used; Engine.Open reports it for an empty path.
	ErrorCodeInvalidDatabasePath ErrorCode = "INVALID_DATABASE_PATH"

	// ErrorCodeDatabaseFileCorrupted indicates a record failed its checksum
	// or could not be parsed, whether on a read or during the recovery scan
	// at open.
	ErrorCodeDatabaseFileCorrupted ErrorCode = "DATABASE_FILE_CORRUPTED"

	// ErrorCodeReadEOF signals the reader has reached the end of valid
	// records in a segment, whether by a zeroed header or a short tail.
	ErrorCodeReadEOF ErrorCode = "READ_EOF"

	// ErrorCodeEncoding indicates a record could not be serialized to its
	// on-disk representation.
	ErrorCodeEncoding ErrorCode = "ENCODING_ERROR"

	// ErrorCodeDecoding indicates a record's on-disk bytes could not be
	// parsed, distinct from a checksum failure on an otherwise well-formed
	// record.
	ErrorCodeDecoding ErrorCode = "DECODING_ERROR"

	// ErrorCodeFailToCloseDataFile indicates closing a segment's file
	// handle failed, e.g. during a deferred flush on shutdown.
	ErrorCodeFailToCloseDataFile ErrorCode = "FAIL_TO_CLOSE_DATA_FILE"

	// ErrorCodeDatabaseLocked indicates another process already holds the
	// advisory directory lock on this database path.
	ErrorCodeDatabaseLocked ErrorCode = "DATABASE_LOCKED"
)

// Validation error codes specific to database inputs: keys, values, and the
// options used to configure and operate the engine.
const (
	// ErrorCodeEmptyKey indicates an operation was given a zero-length key,
	// which every Engine and WriteBatch key operation rejects.
	ErrorCodeEmptyKey ErrorCode = "EMPTY_KEY"

	// ErrorCodeKeyNotFound indicates Get was asked about a key with no live
	// entry in the keydir. Deleting an absent key is a no-op and does not
	// produce it.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrorCodeSegmentThresholdTooSmall indicates a configured segment
	// rotation threshold is below options.MinSegmentThreshold.
	ErrorCodeSegmentThresholdTooSmall ErrorCode = "SEGMENT_THRESHOLD_TOO_SMALL"

	// ErrorCodeExceedBatchMaxSize indicates a write batch accumulated more
	// operations than WriteBatchOptions.MaxBatchSize allows.
	ErrorCodeExceedBatchMaxSize ErrorCode = "EXCEED_BATCH_MAX_SIZE"
)
