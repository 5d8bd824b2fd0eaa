package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment prefix for every setting, e.g. TENANTPOS_PORT.
const Prefix = "tenantpos"

// EnvSpec is the environment configuration needed for the app to start.
type EnvSpec struct {
	Port         int    `envconfig:"port" default:"8080"`
	DatabasePath string `envconfig:"database_path" default:"tenantpos.db"`
	LogLevel     string `envconfig:"log_level" default:"info"`
	Workers      int    `envconfig:"workers" default:"2"`

	SessionSecret string        `envconfig:"session_secret"`
	SessionIssuer string        `envconfig:"session_issuer" default:"tenantpos"`
	SessionTTL    time.Duration `envconfig:"session_ttl" default:"12h"`

	OIDCIssuer  string `envconfig:"oidc_issuer"`
	OIDCJWKSURL string `envconfig:"oidc_jwks_url"`

	// DebugEndpoints exposes the session diagnostic route. Never enable in production.
	DebugEndpoints bool `envconfig:"debug_endpoints" default:"false"`

	SMTPHost     string `envconfig:"smtp_host"`
	SMTPPort     int    `envconfig:"smtp_port" default:"587"`
	SMTPUsername string `envconfig:"smtp_username"`
	SMTPPassword string `envconfig:"smtp_password"`
	SMTPFrom     string `envconfig:"smtp_from" default:"no-reply@tenantpos.local"`

	OtelServiceName    string `envconfig:"otel_service_name" default:"tenantpos"`
	OtelServiceVersion string `envconfig:"otel_service_version" default:"0.1.0"`
	OtelEnvironment    string `envconfig:"otel_environment" default:"development"`
	OtelExporter       string `envconfig:"otel_exporter" default:"stdout"`
}

// Process reads the environment into an EnvSpec without cross-field
// checks. Commands that never verify credentials, such as migrate, use it.
func Process() (*EnvSpec, error) {
	specs := new(EnvSpec)
	if err := envconfig.Process(Prefix, specs); err != nil {
		return nil, fmt.Errorf("issues with environment sourcing: %w", err)
	}
	return specs, nil
}

// Load reads the environment into an EnvSpec and checks cross-field rules.
func Load() (*EnvSpec, error) {
	specs, err := Process()
	if err != nil {
		return nil, err
	}
	if err := specs.Validate(); err != nil {
		return nil, err
	}
	return specs, nil
}

// Validate checks settings that depend on each other.
func (s *EnvSpec) Validate() error {
	if s.OIDCIssuer == "" && s.SessionSecret == "" {
		return fmt.Errorf("either %s_OIDC_ISSUER or %s_SESSION_SECRET must be set", "TENANTPOS", "TENANTPOS")
	}
	if s.SessionSecret != "" && len(s.SessionSecret) < 32 {
		return fmt.Errorf("session secret must be at least 32 bytes")
	}
	return nil
}

// UseOIDC reports whether credentials are verified against an external issuer.
func (s *EnvSpec) UseOIDC() bool {
	return s.OIDCIssuer != ""
}

// MailEnabled reports whether outbound email is configured.
func (s *EnvSpec) MailEnabled() bool {
	return s.SMTPHost != ""
}
