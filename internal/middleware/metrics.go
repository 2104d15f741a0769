package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/josh-kwaku/wallet-ledger/internal/metrics"
)

// Metrics records request count and latency labelled by the matched route
// pattern, which keeps path IDs out of the label set.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(r.Method, path, strconv.Itoa(rec.status), time.Since(start).Seconds())
	})
}
