package errors

import (
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ErrorInfo pairs an error code with a client-safe message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps backend failures onto error codes without leaking
// raw Google API responses to the client. context names the failing
// operation ("ledger append", "lookup read", "image upload").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return ErrorInfo{
				Code:    InternalExternalAPI,
				Message: "The service account does not have access to the " + context + " backend",
			}
		case http.StatusNotFound:
			return ErrorInfo{
				Code:    InternalExternalAPI,
				Message: "The configured spreadsheet or worksheet was not found",
			}
		case http.StatusTooManyRequests:
			return ErrorInfo{
				Code:    InternalExternalAPI,
				Message: "Google API quota exceeded. Please try again in a minute",
			}
		}
	}

	if errors.Is(err, storage.ErrBucketNotExist) {
		return ErrorInfo{
			Code:    ConnectStorageUnavailable,
			Message: "The configured storage bucket does not exist",
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Could not reach the " + context + " backend. Please try again",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Failed during " + context + ". Please try again later",
	}
}
