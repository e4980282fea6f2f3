package authclient

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viant/authclient/client/auth"
	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/store"
	"github.com/viant/authclient/client/auth/transport"
	"go.uber.org/zap"
)

// NewClient creates an authenticated client with store, cookie jar and logging configured via ClientOptions.
func NewClient(ctx context.Context, options *ClientOptions) (*auth.Client, error) {
	options.Init()
	if err := options.Validate(); err != nil {
		return nil, err
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode, _ := credential.ParseMode(options.Mode)
	credentialStore, err := options.credentialStore(ctx)
	if err != nil {
		return nil, err
	}
	transportOptions := []transport.Option{transport.WithStore(credentialStore)}
	if options.Transport != nil {
		transportOptions = append(transportOptions, transport.WithTransport(options.Transport))
	}
	if mode == credential.Cookie {
		jar, err := options.cookieJar(ctx, logger)
		if err != nil {
			return nil, err
		}
		if jar != nil {
			transportOptions = append(transportOptions, transport.WithCookieJar(jar))
		}
	}
	return auth.New(mode, options.BaseURL,
		auth.WithLogger(logger),
		auth.WithTimeout(time.Duration(options.TimeoutSeconds)*time.Second),
		auth.WithTransportOptions(transportOptions...),
	)
}

func (c *ClientOptions) credentialStore(ctx context.Context) (store.Store, error) {
	if c.CredentialStore != nil {
		return c.CredentialStore, nil
	}
	storage := c.Storage
	switch storage.Type {
	case StorageFile:
		return store.NewFileStore(ctx, storage.URL)
	case StorageSecret:
		return store.NewSecretStore(ctx, storage.URL, storage.Key)
	case StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: storage.RedisAddr})
		return store.NewRedisStore(client, storage.RedisPrefix), nil
	}
	return store.NewMemoryStore(), nil
}

func (c *ClientOptions) cookieJar(ctx context.Context, logger *zap.Logger) (http.CookieJar, error) {
	if c.CookieJar != nil {
		return c.CookieJar, nil
	}
	if c.CookieJarURL == "" {
		return nil, nil
	}
	return transport.NewFileJar(ctx, c.CookieJarURL, logger)
}
