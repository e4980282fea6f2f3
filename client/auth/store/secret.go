package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/scy"
)

// DefaultSecretKey is the scy blowfish key used when none is supplied.
const DefaultSecretKey = "blowfish://default"

// SecretStore persists credentials encrypted with a scy key. The blowfish
// kms package has to be linked in (blank import) for blowfish:// keys.
type SecretStore struct {
	mu     sync.Mutex
	URL    string
	Key    string
	fs     afs.Service
	secret *scy.Service
	values map[string]string
}

type secretSnapshot struct {
	Credentials map[string]string `json:"credentials"`
}

func (s *SecretStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *SecretStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save(ctx)
}

func (s *SecretStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save(ctx)
}

func (s *SecretStore) resource() *scy.Resource {
	return scy.NewResource(&secretSnapshot{}, s.URL, s.Key)
}

func (s *SecretStore) save(ctx context.Context) error {
	snap := &secretSnapshot{Credentials: map[string]string{}}
	for k, v := range s.values {
		snap.Credentials[k] = v
	}
	if err := s.secret.Store(ctx, scy.NewSecret(snap, s.resource())); err != nil {
		return fmt.Errorf("failed to store secret %v: %w", s.URL, err)
	}
	return nil
}

func (s *SecretStore) load(ctx context.Context) error {
	s.values = map[string]string{}
	ok, err := s.fs.Exists(ctx, s.URL)
	if err != nil || !ok {
		return err
	}
	secret, err := s.secret.Load(ctx, s.resource())
	if err != nil {
		return fmt.Errorf("failed to load secret %v: %w", s.URL, err)
	}
	var snap *secretSnapshot
	switch actual := secret.Target.(type) {
	case *secretSnapshot:
		snap = actual
	case secretSnapshot:
		snap = &actual
	default:
		return fmt.Errorf("unexpected secret type %T at %v", secret.Target, s.URL)
	}
	for k, v := range snap.Credentials {
		s.values[k] = v
	}
	return nil
}

// NewSecretStore creates an encrypted store at URL; empty key uses DefaultSecretKey.
func NewSecretStore(ctx context.Context, URL, key string) (*SecretStore, error) {
	if key == "" {
		key = DefaultSecretKey
	}
	ret := &SecretStore{URL: URL, Key: key, fs: afs.New(), secret: scy.New()}
	if err := ret.load(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}
