package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Config selects where spans go. An empty OtelEndpoint disables export.
type Config struct {
	OtelEndpoint string
	ServiceName  string
	Environment  string
	OtelHeaders  string
	// SampleRatio applies to root spans only; children follow their parent. Values
	// outside (0, 1] mean always sample.
	SampleRatio float64
}

func (cfg Config) Enabled() bool {
	return cfg.OtelEndpoint != ""
}

func (cfg Config) sampler() sdktrace.Sampler {
	if cfg.SampleRatio <= 0 || cfg.SampleRatio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
}

// exporterOptions accepts the endpoint with or without a scheme. Plain http or a bare
// host:port exports without TLS.
func (cfg Config) exporterOptions() []otlptracehttp.Option {
	endpoint := cfg.OtelEndpoint
	insecure := true

	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = rest
		insecure = false
	} else if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = rest
	}

	options := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(strings.TrimRight(endpoint, "/")),
		otlptracehttp.WithHeaders(ParseHeaders(cfg.OtelHeaders)),
		otlptracehttp.WithTimeout(15 * time.Second),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 2 * time.Second,
			MaxInterval:     15 * time.Second,
			MaxElapsedTime:  time.Minute,
		}),
	}
	if insecure {
		options = append(options, otlptracehttp.WithInsecure())
	}

	return options
}

// ParseHeaders reads "key1=value1,key2=value2". Malformed pairs are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}

	return headers
}

// Init installs the W3C propagator and, when an endpoint is configured, a batching tracer
// provider. The returned func flushes and stops the provider; it is a no-op when export is
// disabled.
func Init(ctx context.Context, cfg Config, log *zap.Logger) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled() {
		log.Debug("otel endpoint not configured, tracing export disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, cfg.exporterOptions()...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(256),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(cfg.sampler()),
	)

	otel.SetTracerProvider(tp)

	log.Info("otel trace exporter initialized",
		zap.String("endpoint", cfg.OtelEndpoint),
		zap.String("service", cfg.ServiceName),
		zap.Float64("sampleRatio", cfg.SampleRatio),
	)

	return tp.Shutdown, nil
}
