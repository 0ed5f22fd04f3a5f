package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Database is the part of the configuration needed to reach the platform database.
type Database struct {
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
}

// GCP holds the Google Cloud settings shared by the publisher and Secret Manager.
type GCP struct {
	GCPProjectID string `envconfig:"GCP_PROJECT_ID"`

	// Optional; uploads are not announced when unset
	PubSubResourceTopic string `envconfig:"PUBSUB_RESOURCE_TOPIC"`
	PubSubEmulatorHost  string `envconfig:"PUBSUB_EMULATOR_HOST"`
}

type Config struct {
	Database
	Port string `envconfig:"PORT" default:"8080"`

	// Session tokens are verified with SessionSecret. When SessionSecretName is set the key
	// material is read from Secret Manager instead.
	SessionSecret     string `envconfig:"SESSION_SECRET"`
	SessionSecretName string `envconfig:"SESSION_SECRET_NAME"`

	// Blob store for file-backed resources
	S3URL           string `envconfig:"S3_URL" required:"true"`
	S3Bucket        string `envconfig:"S3_BUCKET" required:"true"`
	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY" required:"true"`
	ResourceBaseURL string `envconfig:"RESOURCE_BASE_URL" default:"https://resources.example.com/"`

	GCP

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase reads only the database settings, for tools that do not serve requests.
func LoadDatabase() (*Database, error) {
	var db Database
	if err := envconfig.Process("", &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// LoadGCP reads only the Google Cloud settings.
func LoadGCP() (*GCP, error) {
	var ps GCP
	if err := envconfig.Process("", &ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

// AllowedOrigins splits the comma separated CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
