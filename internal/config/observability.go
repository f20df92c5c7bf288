package config

import (
	"github.com/ferdian3456/envisiontech/internal/observability"

	"github.com/knadh/koanf/v2"
)

// LoadObservabilityConfig reads the OTEL_* keys. serviceName is used when
// OTEL_SERVICE_NAME is unset, so the server and the forum client report separately.
func LoadObservabilityConfig(config *koanf.Koanf, serviceName string) observability.Config {
	return observability.Config{
		OtelEndpoint: config.String("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  StringOrDefault(config, "OTEL_SERVICE_NAME", serviceName),
		Environment:  StringOrDefault(config, "ENVIRONMENT", "development"),
		OtelHeaders:  config.String("OTEL_EXPORTER_OTLP_HEADERS"),
		SampleRatio:  config.Float64("OTEL_TRACES_SAMPLE_RATIO"),
	}
}
