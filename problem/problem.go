// Package problem implements RFC 7807 "Problem Details for HTTP APIs"
// responses. A Problem is both an error and a http.Handler: returned
// from a nova.Handler, it is written by
// github.com/c3pb/rabbitmq-mqtt/nova/middleware's ErrorHandler via its
// http.Handler branch, content-negotiated with the request's Accept
// header using problem/internal.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/c3pb/rabbitmq-mqtt/problem/internal"
)

// Problem is a RFC 7807 problem detail.
type Problem struct {
	Type     string         `json:"type,omitempty"`
	Title    string         `json:"title"`
	Status   int            `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Instance string         `json:"instance,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
	Extra    map[string]any `json:"-"`
}

// New returns a Problem with the given status and title.
func New(status int, title string) *Problem {
	return &Problem{Status: status, Title: title}
}

// WithDetail sets Detail and returns the Problem for chaining.
func (p *Problem) WithDetail(detail string) *Problem {
	p.Detail = detail

	return p
}

// WithInstance sets Instance and returns the Problem for chaining.
func (p *Problem) WithInstance(instance string) *Problem {
	p.Instance = instance

	return p
}

// FromError builds a Problem out of err, flattening any joined
// errors into Errors (see stackTrace).
func FromError(status int, title string, err error) *Problem {
	p := New(status, title)

	for _, e := range stackTrace(err) {
		p.Errors = append(p.Errors, e.Error())
	}

	return p
}

// Error implements the error interface so a Problem can be returned
// directly from a nova.Handler.
func (p *Problem) Error() string {
	if p.Detail != "" {
		return p.Title + ": " + p.Detail
	}

	return p.Title
}

// ServeHTTP writes the problem as application/problem+json, or as plain
// text when the request's Accept header accepts text/plain but neither
// application/problem+json nor application/json. Accept quality values
// are not taken into account.
func (p *Problem) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accept := internal.ParseAccept(r)

	if accept.Accepts("application/problem+json") || accept.Accepts("application/json") || !accept.Accepts("text/plain") {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(p.Status)
		_ = json.NewEncoder(w).Encode(p)

		return
	}

	http.Error(w, p.Error(), p.Status)
}

var _ error = (*Problem)(nil)
var _ http.Handler = (*Problem)(nil)
