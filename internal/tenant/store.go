package tenant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store persists tenant settings as JSON blobs in Redis.
type Store struct {
	redis    *redis.Client
	defaults PolicyDefaults
}

// NewStore creates a tenant settings store. defaults fills the policy of
// tenants that have never saved settings.
func NewStore(redisClient *redis.Client, defaults PolicyDefaults) *Store {
	return &Store{redis: redisClient, defaults: defaults}
}

func (s *Store) key(orgID string) string {
	return fmt.Sprintf("tenant:settings:%s", orgID)
}

// Get retrieves a tenant's settings, returning defaults if none are saved.
func (s *Store) Get(ctx context.Context, orgID string) (*Settings, error) {
	data, err := s.redis.Get(ctx, s.key(orgID)).Bytes()
	if err == redis.Nil {
		return DefaultSettingsWith(orgID, s.defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: get settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("tenant: unmarshal settings: %w", err)
	}
	return &settings, nil
}

// Set saves tenant settings.
func (s *Store) Set(ctx context.Context, settings *Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("tenant: marshal settings: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(settings.OrgID), data, 0).Err(); err != nil {
		return fmt.Errorf("tenant: set settings: %w", err)
	}
	return nil
}
