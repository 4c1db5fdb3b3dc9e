package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// StatusFailed is the status every normalized failure carries.
const StatusFailed = "failed"

// Kind tells which tier produced a Failure.
type Kind int

const (
	// KindTransport covers errors before a response arrived: DNS, refused
	// connections, cancellation, unreadable token.
	KindTransport Kind = iota
	// KindHTTP covers non-2xx responses.
	KindHTTP
	// KindBusiness covers 2xx responses whose body says status "failed".
	KindBusiness
	// KindDecode covers 2xx responses the client could not parse.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindBusiness:
		return "business"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Failure is the normalized {status, message} shape. Client methods return
// either a nil error or a *Failure, never anything else.
type Failure struct {
	Status  string
	Message string
	Code    int // HTTP status code; 0 for transport failures
	Kind    Kind
	Err     error
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Status
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts the *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsStatusFailed reports whether err is a normalized failure; it is the Go
// spelling of `res.status === "failed"`.
func IsStatusFailed(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Status == StatusFailed
}

// errorPayload is the backend's error body. Older endpoints report the
// outcome under "success" instead of "status".
type errorPayload struct {
	Status  string `json:"status"`
	Success any    `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func transportFailure(msg string, err error) *Failure {
	return &Failure{Status: StatusFailed, Message: msg, Kind: KindTransport, Err: err}
}

// httpFailure builds a Failure from a non-2xx response. A body that is not
// the expected JSON shape falls back to the status text instead of failing
// a second time.
func httpFailure(code int, body []byte) *Failure {
	f := &Failure{Status: StatusFailed, Code: code, Kind: KindHTTP}
	var p errorPayload
	if err := json.Unmarshal(body, &p); err == nil {
		f.Message = firstNonEmpty(p.Message, p.Error)
	}
	if f.Message == "" {
		f.Message = strings.TrimSpace(http.StatusText(code))
	}
	if f.Message == "" {
		f.Message = "request failed"
	}
	return f
}

// businessFailure detects {"status":"failed"} (or "success":"failed") in a
// 2xx body. It returns nil for anything else, including non-object bodies.
func businessFailure(code int, body []byte) *Failure {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var p errorPayload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return nil
	}
	failed := strings.EqualFold(p.Status, StatusFailed)
	if s, ok := p.Success.(string); ok && strings.EqualFold(s, StatusFailed) {
		failed = true
	}
	if !failed {
		return nil
	}
	return &Failure{
		Status:  StatusFailed,
		Message: firstNonEmpty(p.Message, p.Error, "request failed"),
		Code:    code,
		Kind:    KindBusiness,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
