package cli

import (
	"context"

	"github.com/viant/authclient"
	"github.com/viant/authclient/client/auth"
)

// Options defines CLI commands
type Options struct {
	Register RegisterCommand `command:"register" description:"create a backend account"`
	Login    LoginCommand    `command:"login" description:"log in and store the issued credential"`
	Request  RequestCommand  `command:"request" description:"send an authenticated request"`
	Refresh  RefreshCommand  `command:"refresh" description:"exchange the refresh credential for a new access token"`
	Logout   LogoutCommand   `command:"logout" description:"log out and clear stored credentials"`
	Status   StatusCommand   `command:"status" description:"show the stored access token claims"`
	Mock     MockCommand     `command:"mock" description:"run a local development backend"`
}

// Connection holds options shared by commands talking to the backend
type Connection struct {
	ConfigURL string `short:"c" long:"config" description:"YAML options location"`
	authclient.ClientOptions
}

// Account holds user credentials
type Account struct {
	Username string `short:"n" long:"user" description:"username" required:"true"`
	Password string `short:"p" long:"password" env:"AUTHCLIENT_PASSWORD" description:"password" required:"true"`
}

func (c *Connection) options(ctx context.Context) (*authclient.ClientOptions, error) {
	ret := &authclient.ClientOptions{}
	if c.ConfigURL != "" {
		loaded, err := authclient.LoadOptions(ctx, c.ConfigURL)
		if err != nil {
			return nil, err
		}
		ret = loaded
	}
	flagged := c.ClientOptions
	if flagged.Mode != "" {
		ret.Mode = flagged.Mode
	}
	if flagged.BaseURL != "" {
		ret.BaseURL = flagged.BaseURL
	}
	if flagged.TimeoutSeconds > 0 {
		ret.TimeoutSeconds = flagged.TimeoutSeconds
	}
	if flagged.Storage.Type != "" {
		ret.Storage.Type = flagged.Storage.Type
	}
	if flagged.Storage.URL != "" {
		ret.Storage.URL = flagged.Storage.URL
	}
	if flagged.Storage.Key != "" {
		ret.Storage.Key = flagged.Storage.Key
	}
	if flagged.Storage.RedisAddr != "" {
		ret.Storage.RedisAddr = flagged.Storage.RedisAddr
	}
	if flagged.Storage.RedisPrefix != "" {
		ret.Storage.RedisPrefix = flagged.Storage.RedisPrefix
	}
	if flagged.CookieJarURL != "" {
		ret.CookieJarURL = flagged.CookieJarURL
	}
	ret.Debug = ret.Debug || flagged.Debug

	// a CLI process is short-lived: persist by default
	if ret.Storage.Type == "" && ret.Storage.URL == "" {
		ret.Storage.URL = authclient.DefaultLocation("credentials.json")
	}
	if ret.Mode == "cookie" && ret.CookieJarURL == "" {
		ret.CookieJarURL = authclient.DefaultLocation("cookies.json")
	}
	return ret, nil
}

func (c *Connection) client(ctx context.Context) (*auth.Client, error) {
	options, err := c.options(ctx)
	if err != nil {
		return nil, err
	}
	if options.Logger, err = authclient.NewLogger(options.Debug); err != nil {
		return nil, err
	}
	return authclient.NewClient(ctx, options)
}
