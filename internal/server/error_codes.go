package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidQuery    = 1003
	ErrCodeInvalidID       = 1004
	ErrCodeInvalidName     = 1005
	ErrCodeInvalidDate     = 1006
	ErrCodeInvalidFileName = 1007
	ErrCodeMissingRequired = 1008

	// Domain state (2xxx)
	ErrCodeAttachmentNotFound = 2001
	ErrCodeCollectionNotFound = 2002
	ErrCodeFileNotFound       = 2003
	ErrCodeConflict           = 2101

	// Limits (3xxx)
	ErrCodeResourceExhausted = 3001

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
	ErrCodeIOFailure    = 4003
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeAttachmentNotFound
	case 409:
		return ErrCodeConflict
	case 429:
		return ErrCodeResourceExhausted
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
