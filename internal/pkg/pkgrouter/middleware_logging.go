package pkgrouter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
)

const (
	maxLoggedBody = 16 << 10
	redacted      = "***"
	binaryBody    = "<binary body omitted>"
)

//nolint:gochecknoglobals // lookup table
var sensitiveKeys = map[string]struct{}{
	"authorization":       {},
	"proxy-authorization": {},
	"cookie":              {},
	"set-cookie":          {},
	"password":            {},
	"dsn":                 {},
	"access_token":        {},
	"refresh_token":       {},
	"secret_access_key":   {},
}

func sensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

func redactHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for key := range out {
		if sensitive(key) {
			out.Set(key, redacted)
		}
	}
	return out
}

// redact walks a decoded JSON value and hides sensitive object members.
func redact(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if sensitive(k) {
				out[k] = redacted
				continue
			}
			out[k] = redact(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redact(item)
		}
		return out
	default:
		return v
	}
}

// loggableBody renders a request or response body for the access log.
func loggableBody(raw []byte, truncated bool) any {
	if len(raw) == 0 {
		return nil
	}

	if !truncated {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return redact(decoded)
		}
	}

	if !utf8.Valid(raw) {
		return binaryBody
	}
	if truncated || len(raw) > maxLoggedBody {
		if len(raw) > maxLoggedBody {
			raw = raw[:maxLoggedBody]
		}
		return string(raw) + "...(truncated)"
	}
	return string(raw)
}

// responseCapture records the status, size and the head of the body written
// by the wrapped handler.
type responseCapture struct {
	http.ResponseWriter
	status    int
	size      int
	body      bytes.Buffer
	truncated bool
}

func (w *responseCapture) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseCapture) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBody - w.body.Len(); room > 0 {
		if len(p) > room {
			w.body.Write(p[:room])
			w.truncated = true
		} else {
			w.body.Write(p)
		}
	} else if len(p) > 0 {
		w.truncated = true
	}

	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

func (w *responseCapture) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseCapture) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseCapture) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func routePattern(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routePattern(r)

		var reqBody []byte
		if r.Body != nil {
			//nolint:errcheck // the handler sees the same bytes and reports read errors itself
			reqBody, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(reqBody))
		}

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"headers", redactHeaders(r.Header),
			"body", loggableBody(reqBody, false),
		)

		rec := &responseCapture{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.statusCode()
		slog.Log(r.Context(), levelForStatus(status), "response sent",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", rec.size,
			"latency_ms", time.Since(start).Milliseconds(),
			"body", loggableBody(rec.body.Bytes(), rec.truncated),
		)
	})
}
