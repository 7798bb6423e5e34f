package errors

// StorageError is a specialized error type for storage-related operations.
// It embeds baseError to inherit all the standard error functionality, then adds
// storage-specific fields that help pinpoint exactly where problems occurred.
type StorageError struct {
	*baseError
	segmentId int    // Which segment was being accessed when the error occurred.
	offset    int    // Byte offset within the segment where the problem happened.
	fileName  string // Name of the file that caused the issue.
	path      string // Path of the file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithSegmentID sets which storage segment was involved in the error.
func (se *StorageError) WithSegmentID(id int) *StorageError {
	se.segmentId = id
	return se
}

// WithOffset records the byte position where the error occurred.
func (se *StorageError) WithOffset(offset int) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// SegmentId returns the segment identifier where the error occurred.
func (se *StorageError) SegmentId() int {
	return se.segmentId
}

// Offset returns the byte offset within the segment where the error happened.
// Combined with SegmentId, this gives you the exact location of the problem.
func (se *StorageError) Offset() int {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}

// NewKeyNotFoundStorageError reports that Get found no live entry for key.
func NewKeyNotFoundStorageError(key []byte) *StorageError {
	return NewStorageError(nil, ErrorCodeKeyNotFound, "key not found").
		WithDetail("key", string(key))
}

// NewDataFileNotFoundError reports that a segment the keydir points at is
// missing from the data directory.
func NewDataFileNotFoundError(segmentID uint32, path string) *StorageError {
	return NewStorageError(nil, ErrorCodeDataFileNotFound, "data file not found").
		WithSegmentID(int(segmentID)).WithPath(path)
}

// NewInvalidDatabasePathError reports that the configured database
// directory cannot be used.
func NewInvalidDatabasePathError(path string, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeInvalidDatabasePath, "invalid database path").
		WithPath(path)
}

// NewDatabaseFileCorruptedError reports a checksum or structural failure in
// a segment, found either by a read or by the recovery scan at open. A
// truncated trailing record is not reported this way; it ends the scan as
// ReadEOF.
func NewDatabaseFileCorruptedError(segmentID uint32, offset int64, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeDatabaseFileCorrupted, "database file is corrupted").
		WithSegmentID(int(segmentID)).WithOffset(int(offset))
}

// NewReadEOFError reports that a segment scan reached the end of valid
// records.
func NewReadEOFError(segmentID uint32, offset int64) *StorageError {
	return NewStorageError(nil, ErrorCodeReadEOF, "reached end of segment records").
		WithSegmentID(int(segmentID)).WithOffset(int(offset))
}

// NewEncodingError reports that a record could not be serialized.
func NewEncodingError(cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeEncoding, "failed to encode record")
}

// NewDecodingError reports that on-disk bytes could not be parsed into a
// record.
func NewDecodingError(segmentID uint32, offset int64, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeDecoding, "failed to decode record").
		WithSegmentID(int(segmentID)).WithOffset(int(offset))
}

// NewFailToCloseDataFileError reports that closing a segment's file handle
// failed.
func NewFailToCloseDataFileError(segmentID uint32, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeFailToCloseDataFile, "failed to close data file").
		WithSegmentID(int(segmentID))
}

// NewDatabaseLockedError reports that another process already holds the
// advisory lock on the database directory.
func NewDatabaseLockedError(path string) *StorageError {
	return NewStorageError(nil, ErrorCodeDatabaseLocked, "database is locked by another process").
		WithPath(path)
}

// NewFailToUpdateIndexError reports that a record was appended to a segment
// but the keydir could not be updated to reflect it.
func NewFailToUpdateIndexError(key []byte, cause error) *StorageError {
	return NewStorageError(cause, ErrorCodeFailToUpdateIndex, "failed to update index after write").
		WithDetail("key", string(key))
}
