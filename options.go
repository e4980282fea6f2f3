package authclient

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/store"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BackendURLEnv supplies the backend base URL when none is configured.
const BackendURLEnv = "AUTHCLIENT_BACKEND_URL"

// Storage types
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSecret = "secret"
	StorageRedis  = "redis"
)

// ClientOptions defines options for configuring an authenticated client.
type ClientOptions struct {
	Mode           string         `yaml:"mode,omitempty" json:"mode,omitempty" short:"m" long:"mode" description:"credential mode" choice:"header" choice:"cookie"`
	BaseURL        string         `yaml:"baseURL,omitempty" json:"baseURL,omitempty" short:"u" long:"url" env:"AUTHCLIENT_BACKEND_URL" description:"backend base URL"`
	TimeoutSeconds int            `yaml:"timeoutSeconds,omitempty" json:"timeoutSeconds,omitempty" long:"timeout" description:"request timeout in seconds"`
	Storage        StorageOptions `yaml:"storage,omitempty" json:"storage,omitempty" group:"storage" namespace:"storage"`
	CookieJarURL   string         `yaml:"cookieJarURL,omitempty" json:"cookieJarURL,omitempty" long:"cookies" description:"cookie jar location (cookie mode)"`
	Debug          bool           `yaml:"debug,omitempty" json:"debug,omitempty" long:"debug" description:"debug logging"`

	// CredentialStore, if set, is used instead of Storage.
	CredentialStore store.Store `yaml:"-" json:"-" no-flag:"true"`
	// CookieJar, if set, is used instead of CookieJarURL.
	CookieJar http.CookieJar `yaml:"-" json:"-" no-flag:"true"`
	// Transport, if set, replaces http.DefaultTransport.
	Transport http.RoundTripper `yaml:"-" json:"-" no-flag:"true"`
	Logger    *zap.Logger       `yaml:"-" json:"-" no-flag:"true"`
}

// StorageOptions selects the credential store.
type StorageOptions struct {
	Type        string `yaml:"type,omitempty" json:"type,omitempty" long:"type" description:"credential store type" choice:"memory" choice:"file" choice:"secret" choice:"redis"`
	URL         string `yaml:"url,omitempty" json:"url,omitempty" long:"location" description:"credential file location (file, secret)"`
	Key         string `yaml:"key,omitempty" json:"key,omitempty" long:"key" description:"scy encryption key (secret)"`
	RedisAddr   string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty" long:"redis" description:"redis address (redis)"`
	RedisPrefix string `yaml:"redisPrefix,omitempty" json:"redisPrefix,omitempty" long:"prefix" description:"redis key prefix (redis)"`
}

// Init applies defaults
func (c *ClientOptions) Init() {
	if c.Mode == "" {
		c.Mode = string(credential.HeaderToken)
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(BackendURLEnv)
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StorageMemory
		if c.Storage.URL != "" {
			c.Storage.Type = StorageFile
		}
	}
	if c.Storage.Type == StorageRedis && c.Storage.RedisPrefix == "" {
		c.Storage.RedisPrefix = "authclient"
	}
}

// Validate checks options after Init
func (c *ClientOptions) Validate() error {
	if _, err := credential.ParseMode(c.Mode); err != nil {
		return err
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("backend URL was empty, use --url or %v", BackendURLEnv)
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StorageFile, StorageSecret:
		if c.Storage.URL == "" {
			return fmt.Errorf("%v storage location was empty", c.Storage.Type)
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("redis address was empty")
		}
	default:
		return fmt.Errorf("unsupported storage type: %v", c.Storage.Type)
	}
	return nil
}

// LoadOptions reads YAML options from URL (any afs location)
func LoadOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &ClientOptions{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("invalid options %v: %w", URL, err)
	}
	return ret, nil
}

// DefaultLocation returns a per-user location for name
func DefaultLocation(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".authclient", name)
}

// NewLogger creates a production logger or a development one in debug mode.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}
