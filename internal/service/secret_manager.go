package service

import (
	"context"
	"fmt"
	"strings"

	"arcronym/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// SecretSource reads secret values.
type SecretSource interface {
	Access(ctx context.Context, name string) (string, error)
}

// SecretManagerSource reads secrets of one project from Google Secret Manager. Close releases
// the client.
type SecretManagerSource struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerSource(ctx context.Context, cfg *config.Config) (*SecretManagerSource, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP Project ID is not set")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &SecretManagerSource{client: client, projectID: cfg.GCPProjectID}, nil
}

// secretVersionPath expands a bare secret name to its latest version. Fully qualified
// resource names are used as given.
func secretVersionPath(projectID, name string) string {
	if strings.HasPrefix(name, "projects/") {
		if strings.Contains(name, "/versions/") {
			return name
		}
		return name + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name)
}

func (s *SecretManagerSource) Access(ctx context.Context, name string) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionPath(s.projectID, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	return string(resp.Payload.Data), nil
}

func (s *SecretManagerSource) Close() error {
	return s.client.Close()
}

// SessionKey returns the key material session tokens are verified with.
func SessionKey(ctx context.Context, cfg *config.Config, secrets SecretSource) (string, error) {
	if cfg.SessionSecretName == "" {
		if cfg.SessionSecret == "" {
			return "", fmt.Errorf("neither SESSION_SECRET nor SESSION_SECRET_NAME is set")
		}
		return cfg.SessionSecret, nil
	}
	if secrets == nil {
		return "", fmt.Errorf("SESSION_SECRET_NAME is set but no secret source is available")
	}
	key, err := secrets.Access(ctx, cfg.SessionSecretName)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

var _ SecretSource = (*SecretManagerSource)(nil)
