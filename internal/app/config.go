package app

import (
	"strings"
	"time"

	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/envutil"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type Config struct {
	HTTPAddr string

	DBDriver   string
	SQLitePath string

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AuthRequired   bool

	RedisAddr    string
	RedisChannel string

	MetricsEnabled   bool
	CollectorsPeriod time.Duration
	AllowedOrigins   []string

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	serviceName := envutil.String("SERVICE_NAME", "coursebridge-backend", log)
	return Config{
		HTTPAddr:         envutil.String("HTTP_ADDR", ":8080", log),
		DBDriver:         strings.ToLower(envutil.String("DB_DRIVER", "postgres", log)),
		SQLitePath:       envutil.String("SQLITE_PATH", "coursebridge.db", log),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "", log),
		AccessTokenTTL:   envutil.Duration("ACCESS_TOKEN_TTL", time.Hour, log),
		AuthRequired:     envutil.Bool("AUTH_REQUIRED", false, log),
		RedisAddr:        envutil.String("REDIS_ADDR", "", log),
		RedisChannel:     envutil.String("REDIS_CHANNEL", "", log),
		MetricsEnabled:   envutil.Bool("METRICS_ENABLED", true, log),
		CollectorsPeriod: envutil.Duration("METRICS_COLLECT_INTERVAL", 15*time.Second, log),
		AllowedOrigins:   splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: serviceName,
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
