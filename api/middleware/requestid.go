package middleware

import (
	"net/http"

	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID, or a fresh uuid when absent,
// on the response so later handlers and the caller can correlate logs.
type RequestID struct{}

func (RequestID) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		u, err := uuid.NewV4()
		if err != nil {
			log.Errorf("Error generating request id: %s", err)
		} else {
			id = u.String()
		}
	}
	if id != "" {
		rw.Header().Set(RequestIDHeader, id)
	}
	next(rw, r)
}
