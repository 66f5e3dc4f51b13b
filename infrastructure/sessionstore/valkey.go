package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AzielCF/az-autopost/domains/session"
	"github.com/AzielCF/az-autopost/infrastructure/valkey"
	valkeylib "github.com/valkey-io/valkey-go"
)

// ValkeyStore keeps the session under one key, without expiry.
type ValkeyStore struct {
	client *valkey.Client
	key    string
}

func NewValkeyStore(client *valkey.Client) *ValkeyStore {
	return &ValkeyStore{
		client: client,
		key:    client.Key("session", "current"),
	}
}

func (s *ValkeyStore) inner() valkeylib.Client {
	return s.client.Inner()
}

func (s *ValkeyStore) Location() string {
	return "valkey://" + s.key
}

func (s *ValkeyStore) Exists(ctx context.Context) (bool, error) {
	cmd := s.inner().B().Exists().Key(s.key).Build()
	count, err := s.inner().Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return count > 0, nil
}

func (s *ValkeyStore) Load(ctx context.Context) (*session.Session, error) {
	cmd := s.inner().B().Get().Key(s.key).Build()

	data, err := s.inner().Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, session.ErrNoSession
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return errors.New("nil session")
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	cmd := s.inner().B().Set().Key(s.key).Value(string(data)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
