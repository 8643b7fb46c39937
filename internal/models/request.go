package models

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RequestRecord is one backend call in the local request journal.
//
// Records are append-only: UpdatedAt always equals CreatedAt.
type RequestRecord struct {
	id        string
	sequence  int
	method    string
	path      string
	status    int
	errText   string
	duration  time.Duration
	createdAt time.Time
}

// NewRequestRecord creates a record for a completed call. A nil err records success.
func NewRequestRecord(sequence int, method, path string, status int, err error, duration time.Duration) *RequestRecord {
	r := &RequestRecord{
		sequence:  sequence,
		method:    strings.ToUpper(method),
		path:      path,
		status:    status,
		duration:  duration,
		createdAt: time.Now(),
	}
	if err != nil {
		r.errText = err.Error()
	}
	return r
}

// RestoreRequestRecord rebuilds a record read from storage.
func RestoreRequestRecord(id string, sequence int, method, path string, status int, errText string, duration time.Duration, createdAt time.Time) *RequestRecord {
	return &RequestRecord{
		id:        id,
		sequence:  sequence,
		method:    method,
		path:      path,
		status:    status,
		errText:   errText,
		duration:  duration,
		createdAt: createdAt,
	}
}

func (r *RequestRecord) ID() string              { return r.id }
func (r *RequestRecord) Sequence() int           { return r.sequence }
func (r *RequestRecord) Method() string          { return r.method }
func (r *RequestRecord) Path() string            { return r.path }
func (r *RequestRecord) Status() int             { return r.status }
func (r *RequestRecord) Error() string           { return r.errText }
func (r *RequestRecord) Duration() time.Duration { return r.duration }
func (r *RequestRecord) CreatedAt() time.Time    { return r.createdAt }
func (r *RequestRecord) UpdatedAt() time.Time    { return r.createdAt }

func (r *RequestRecord) SetID(id string)     { r.id = id }
func (r *RequestRecord) SetSequence(seq int) { r.sequence = seq }

// Failed reports whether the call errored or returned a non-2xx status.
func (r *RequestRecord) Failed() bool {
	return r.errText != "" || r.status < 200 || r.status >= 300
}

// Validate checks required fields.
func (r *RequestRecord) Validate() error {
	if r.id == "" {
		return fmt.Errorf("request id is required")
	}
	switch r.method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
	default:
		return fmt.Errorf("unsupported method %q", r.method)
	}
	if r.path == "" {
		return fmt.Errorf("request path is required")
	}
	return nil
}
