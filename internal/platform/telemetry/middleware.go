package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// HeaderTraceID carries the trace ID of the request back to the client.
const HeaderTraceID = "X-Trace-ID"

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware returns the otelgin tracing middleware followed by request
// metrics. Install both with engine.Use(Middleware(name)...).
func Middleware(serviceName string) []gin.HandlerFunc {
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return []gin.HandlerFunc{otelgin.Middleware(serviceName), metrics.handler}
}

func (m *Metrics) handler(c *gin.Context) {
	ctx := c.Request.Context()

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		c.Header(HeaderTraceID, sc.TraceID().String())
	}

	if m == nil {
		c.Next()
		return
	}

	start := time.Now()
	route := attribute.String("http.route", c.FullPath())
	method := attribute.String("http.method", c.Request.Method)

	m.activeRequests.Add(ctx, 1, metric.WithAttributes(method, route))
	defer m.activeRequests.Add(ctx, -1, metric.WithAttributes(method, route))

	c.Next()

	attrs := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
	m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	m.requestTotal.Add(ctx, 1, attrs)
}
