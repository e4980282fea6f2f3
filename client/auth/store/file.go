package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viant/afs"
)

// FileStore persists credentials as a JSON document at an afs URL
// (local path, file://, mem:// or any registered storage).
type FileStore struct {
	mu     sync.RWMutex
	URL    string
	fs     afs.Service
	values map[string]string
}

type fileSnapshot struct {
	Credentials map[string]string `json:"credentials"`
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.save(ctx)
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.save(ctx)
}

func (f *FileStore) save(ctx context.Context) error {
	data, err := json.MarshalIndent(fileSnapshot{Credentials: f.values}, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save credentials %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) load(ctx context.Context) error {
	f.values = map[string]string{}
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return fmt.Errorf("failed to load credentials %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	snap := fileSnapshot{}
	if err = json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("invalid credentials file %v: %w", f.URL, err)
	}
	for k, v := range snap.Credentials {
		f.values[k] = v
	}
	return nil
}

// NewFileStore creates a store persisted at URL, loading any existing credentials.
func NewFileStore(ctx context.Context, URL string) (*FileStore, error) {
	ret := &FileStore{URL: URL, fs: afs.New()}
	if err := ret.load(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}
