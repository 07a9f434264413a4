package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	if address != "" {
		config.Address = address
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	if token != "" {
		client.SetToken(token)
	}

	return &SecretManager{client: client}, nil
}

// GetString reads a string value from a KV secret. Both KV v2 ("data" envelope) and
// KV v1 layouts are accepted.
func (sm *SecretManager) GetString(ctx context.Context, path, key string) (string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: secret %s not found", path)
	}

	data := secret.Data
	if inner, ok := data["data"].(map[string]interface{}); ok {
		data = inner
	}

	value, ok := data[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("vault: key %q missing in %s", key, path)
	}
	return value, nil
}
