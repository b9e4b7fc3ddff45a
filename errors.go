package layerkit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNotFound template or source not found
	ErrNotFound = NewError("not found", http.StatusNotFound)
	// ErrInvalid invalid name or argument
	ErrInvalid = NewError("invalid", http.StatusBadRequest)
	// ErrExists save target already exists, retry with overwrite to replace
	ErrExists = NewError("already exists", http.StatusConflict)
	// ErrExpired stored document past its expiration
	ErrExpired = NewError("expired", http.StatusGone)
	// ErrUnsupportedFormat source image format not recognized
	ErrUnsupportedFormat = NewError("unsupported format", http.StatusNotAcceptable)
	// ErrTimeout collaborator call timed out
	ErrTimeout = NewError("timeout", http.StatusRequestTimeout)
	// ErrInternal internal error
	ErrInternal = NewError("internal error", http.StatusInternalServerError)
)

const errPrefix = "layerkit:"

var errMsgRegexp = regexp.MustCompile(fmt.Sprintf("^%s ([0-9]+) (.*)$", errPrefix))

// Error layerkit error convention
type Error struct {
	Message string `json:"message,omitempty"`
	Code    int    `json:"status,omitempty"`
}

type timeoutErr interface {
	Timeout() bool
}

// Error implements error
func (e Error) Error() string {
	return fmt.Sprintf("%s %d %s", errPrefix, e.Code, e.Message)
}

// Timeout indicates if error is timeout
func (e Error) Timeout() bool {
	return e.Code == http.StatusRequestTimeout || e.Code == http.StatusGatewayTimeout
}

// NewError creates layerkit Error from message and status code
func NewError(msg string, code int) Error {
	return Error{Message: msg, Code: code}
}

// WrapError wraps Go error into layerkit Error
func WrapError(err error) Error {
	if err == nil {
		return ErrInternal
	}
	var e Error
	if errors.As(err, &e) {
		return e
	}
	var te timeoutErr
	if errors.As(err, &te) && te.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	if msg := err.Error(); errMsgRegexp.MatchString(msg) {
		if match := errMsgRegexp.FindStringSubmatch(msg); len(match) == 3 {
			code, _ := strconv.Atoi(match[1])
			return NewError(match[2], code)
		}
	}
	msg := strings.Replace(err.Error(), "\n", "", -1)
	return NewError(msg, http.StatusInternalServerError)
}
