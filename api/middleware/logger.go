package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// Logger is a middleware handler that logs the request as it goes in and the response as it goes out.
type Logger struct {
	*log.Logger
}

func NewLogger() *Logger {
	return &Logger{log.StandardLogger()}
}

func (l *Logger) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	entry := l.WithField("request_id", rw.Header().Get(RequestIDHeader))
	entry.Infof("Started %s %s", r.Method, r.URL.Path)

	next(rw, r)

	res := rw.(negroni.ResponseWriter)
	entry.Infof("Completed %v %s in %v", res.Status(), http.StatusText(res.Status()), time.Since(start))
}
