package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viant/authclient/client/auth"
	"github.com/viant/authclient/client/auth/credential"
	"github.com/viant/authclient/client/auth/mock"
)

// RegisterCommand creates an account
type RegisterCommand struct {
	Connection
	Account
}

func (c *RegisterCommand) Execute(_ []string) error {
	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	message, err := client.Register(ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, message.Message)
	return err
}

// LoginCommand logs in
type LoginCommand struct {
	Connection
	Account
}

func (c *LoginCommand) Execute(_ []string) error {
	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	message, err := client.Login(ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, message.Message)
	return err
}

// RequestCommand sends an authenticated request to the path given as argument
type RequestCommand struct {
	Connection
	Method  string   `short:"X" long:"method" description:"HTTP method" default:"GET"`
	Headers []string `short:"H" long:"header" description:"request header, Name: value"`
	Data    string   `short:"d" long:"data" description:"request body"`
}

func (c *RequestCommand) Execute(args []string) error {
	if len(args) != 1 {
		return errors.New("expected exactly one request path")
	}
	request := auth.NewRequest(strings.ToUpper(c.Method), args[0])
	for _, header := range c.Headers {
		name, value, ok := strings.Cut(header, ":")
		if !ok {
			return fmt.Errorf("invalid header %q, expected Name: value", header)
		}
		request.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	if c.Data != "" {
		contentType := ""
		if json.Valid([]byte(c.Data)) && request.Header.Get("Content-Type") == "" {
			contentType = "application/json"
		}
		request.SetBody(contentType, []byte(c.Data))
	}
	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	resp, err := client.Do(ctx, request)
	if err != nil {
		if credential.IsUnauthorized(err) {
			return fmt.Errorf("%w (log in again)", err)
		}
		return err
	}
	defer resp.Body.Close()
	if _, err = io.Copy(output, resp.Body); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output)
	return err
}

// RefreshCommand refreshes the access token
type RefreshCommand struct {
	Connection
}

func (c *RefreshCommand) Execute(_ []string) error {
	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	token, err := client.RefreshAccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		_, err = fmt.Fprintln(output, "session cookie refreshed")
		return err
	}
	_, err = fmt.Fprintln(output, token)
	return err
}

// LogoutCommand logs out
type LogoutCommand struct {
	Connection
}

func (c *LogoutCommand) Execute(_ []string) error {
	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	if err = client.Logout(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, "logged out")
	return err
}

// StatusCommand prints claims of the stored access token
type StatusCommand struct {
	Connection
}

func (c *StatusCommand) Execute(_ []string) error {
	ctx := context.Background()
	client, err := c.client(ctx)
	if err != nil {
		return err
	}
	claims, err := client.Claims(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, string(data))
	return err
}

// MockCommand serves the development backend
type MockCommand struct {
	Mode     string `short:"m" long:"mode" description:"credential mode" choice:"header" choice:"cookie" default:"header"`
	Addr     string `short:"a" long:"addr" description:"listen address" default:"localhost:5000"`
	Username string `short:"n" long:"user" description:"seed username"`
	Password string `short:"p" long:"password" description:"seed password"`
}

func (c *MockCommand) Execute(_ []string) error {
	mode, err := credential.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	backend, err := mock.NewBackend(mode)
	if err != nil {
		return err
	}
	if c.Username != "" {
		if err = backend.AddUser(c.Username, c.Password); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintf(output, "mock backend (%v mode) listening on %v\n", mode, c.Addr)
	return http.ListenAndServe(c.Addr, backend.Handler())
}
