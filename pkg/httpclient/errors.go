package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/leonardoazeredo/ecomm-poc/pkg/errors"
)

// ContentAPIError mirrors the error envelope returned by the Contentful
// Content Delivery API, e.g.
//
//	{"sys":{"type":"Error","id":"NotFound"},"message":"The resource could not be found."}
type ContentAPIError struct {
	Sys struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"sys"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// ParseResponseError reads the body of a non-2xx HTTP response from the
// content API and translates it into an appropriate AppError. If the body
// matches the Contentful error envelope the id and message are preserved;
// otherwise a generic error carrying the status and raw body is returned.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var apiErr ContentAPIError
	if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Sys.Type == "Error" {
		return mapContentAPIError(resp.StatusCode, apiErr.Sys.ID, apiErr.Message, serviceName)
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapContentAPIError translates the content API's HTTP status and error id
// into an AppError that preserves the error semantics.
func mapContentAPIError(status int, id, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s: %s", serviceName, id, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusTooManyRequests || status >= 500:
		return apperrors.Unavailable(serviceName, fmt.Errorf("%s (%d/%s)", message, status, id))
	default:
		return &apperrors.AppError{
			Code:    id,
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
// Client errors are not retried since the request itself was invalid.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
