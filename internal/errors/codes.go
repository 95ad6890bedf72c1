package errors

// Error code constants returned to the client.
// Format: CATEGORY_SPECIFIC_DETAIL; the frontend maps these to
// display messages.

const (
	// ==================== Configuration (CONFIG_) ====================
	ConfigMissingBucket      = "CONFIG_MISSING_BUCKET"
	ConfigMissingSpreadsheet = "CONFIG_MISSING_SPREADSHEET"
	ConfigMissingCredentials = "CONFIG_MISSING_CREDENTIALS"

	// ==================== Connectivity (CONNECT_) ====================
	ConnectSheetsUnavailable  = "CONNECT_SHEETS_UNAVAILABLE"
	ConnectStorageUnavailable = "CONNECT_STORAGE_UNAVAILABLE"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput   = "VALIDATION_INVALID_INPUT"
	ValidationMissingFields  = "VALIDATION_MISSING_FIELDS"
	ValidationInvalidDate    = "VALIDATION_INVALID_DATE"
	ValidationRequired       = "VALIDATION_REQUIRED"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadDecodeFailed    = "UPLOAD_DECODE_FAILED"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Ledger (WRITE_) ====================
	WriteFailed = "WRITE_FAILED"

	// ==================== Lookup (LOOKUP_) ====================
	LookupReadFailed  = "LOOKUP_READ_FAILED"
	LookupWriteFailed = "LOOKUP_WRITE_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API"
)
