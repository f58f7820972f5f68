package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder はリクエストメトリクスの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type HTTPRecorder interface {
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)
}

// NewMetricsMiddleware はリクエストごとにカウンタとレイテンシを記録する
// ミドルウェアを返す。
func NewMetricsMiddleware(recorder HTTPRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPRequest(r.Method, r.URL.Path, rec.statusCode, time.Since(start))
		})
	}
}
