// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はHTTPリクエストのメトリクスを収集する。
// ミドルウェアから利用する。
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authgate_http_requests_total",
			Help: "メソッド・パス・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "path", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authgate_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// RecordHTTPRequest はリクエスト1件のカウンタとレイテンシを記録する。
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
