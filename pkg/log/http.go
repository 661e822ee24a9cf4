package log

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// HTTPLogger logs outbound HTTP traffic through a logrus.Logger. Headers are
// deliberately not logged: the Authorization header carries the bearer token.
type HTTPLogger struct {
	logger *log.Logger
}

// NewHTTPLogger creates a new HTTPLogger instance
func NewHTTPLogger(logger *log.Logger) *HTTPLogger {
	return &HTTPLogger{
		logger: logger,
	}
}

// LogRequest logs information about an HTTP request
func (l *HTTPLogger) LogRequest(req *http.Request) {
	l.logger.WithFields(log.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"host":   req.Host,
		"path":   req.URL.Path,
	}).Info("HTTP request")
}

// LogResponse logs information about an HTTP response
func (l *HTTPLogger) LogResponse(req *http.Request, res *http.Response, err error, duration time.Duration) {
	durationMs := duration / time.Millisecond

	fields := log.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"host":       req.Host,
		"path":       req.URL.Path,
		"durationMs": durationMs,
	}

	if err != nil {
		fields["error"] = err.Error()
		l.logger.WithFields(fields).Error("HTTP response error")
	} else {
		fields["status"] = res.StatusCode
		l.logger.WithFields(fields).Info("HTTP response")
	}
}

// loggingTransport wraps a RoundTripper and reports every exchange to an
// HTTPLogger.
type loggingTransport struct {
	transport http.RoundTripper
	logger    *HTTPLogger
}

// NewLoggingTransport returns a RoundTripper that logs each request and
// response through logger before delegating to transport. A nil transport
// falls back to http.DefaultTransport.
func NewLoggingTransport(transport http.RoundTripper, logger *log.Logger) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &loggingTransport{
		transport: transport,
		logger:    NewHTTPLogger(logger),
	}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.LogRequest(req)
	start := time.Now()
	res, err := t.transport.RoundTrip(req)
	t.logger.LogResponse(req, res, err, time.Since(start))
	return res, err
}
