package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"go.uber.org/zap"
)

// FileJar is a cookiejar.Jar that keeps an index of the cookies it was given
// and persists it through afs after every update, so a cookie session
// survives process restarts.
type FileJar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	URL     string
	fs      afs.Service
	entries map[string]persistedCookie
	logger  *zap.Logger
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	HostOnly bool      `json:"hostOnly,omitempty"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

func (p *persistedCookie) key() string {
	return p.Domain + "|" + p.Path + "|" + p.Name
}

func (p *persistedCookie) expired(now time.Time) bool {
	return !p.Expires.IsZero() && now.After(p.Expires)
}

type cookieSnapshot struct {
	Cookies []persistedCookie `json:"cookies"`
}

// NewFileJar creates a cookie jar persisted at URL.
func NewFileJar(ctx context.Context, URL string, logger *zap.Logger) (*FileJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &FileJar{inner: inner, URL: URL, fs: afs.New(), entries: map[string]persistedCookie{}, logger: logger}
	if err = j.load(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *FileJar) Cookies(u *neturl.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

func (j *FileJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		pc := toPersisted(u, c, now)
		if c.MaxAge < 0 || pc.expired(now) {
			delete(j.entries, pc.key())
			continue
		}
		j.entries[pc.key()] = pc
	}
	if err := j.save(context.Background()); err != nil {
		j.logger.Warn("failed to persist cookies", zap.String("url", j.URL), zap.Error(err))
	}
}

func toPersisted(u *neturl.URL, c *http.Cookie, now time.Time) persistedCookie {
	domain := strings.TrimPrefix(strings.TrimSpace(c.Domain), ".")
	hostOnly := domain == ""
	if hostOnly {
		domain = u.Host
		if h, _, err := net.SplitHostPort(domain); err == nil && h != "" {
			domain = h
		}
	}
	path := c.Path
	if strings.TrimSpace(path) == "" {
		path = "/"
	}
	expires := c.Expires
	if c.MaxAge > 0 {
		expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	}
	return persistedCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   domain,
		HostOnly: hostOnly,
		Path:     path,
		Expires:  expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func (j *FileJar) save(ctx context.Context) error {
	snap := cookieSnapshot{Cookies: make([]persistedCookie, 0, len(j.entries))}
	for _, v := range j.entries {
		snap.Cookies = append(snap.Cookies, v)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return j.fs.Upload(ctx, j.URL, 0o600, bytes.NewReader(data))
}

func (j *FileJar) load(ctx context.Context) error {
	ok, err := j.fs.Exists(ctx, j.URL)
	if err != nil || !ok {
		return err
	}
	data, err := j.fs.DownloadWithURL(ctx, j.URL)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var snap cookieSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	now := time.Now()
	for _, pc := range snap.Cookies {
		if pc.expired(now) {
			continue
		}
		scheme := "http"
		if pc.Secure {
			scheme = "https"
		}
		cookie := &http.Cookie{
			Name:     pc.Name,
			Value:    pc.Value,
			Path:     pc.Path,
			Expires:  pc.Expires,
			Secure:   pc.Secure,
			HttpOnly: pc.HttpOnly,
		}
		if !pc.HostOnly {
			cookie.Domain = pc.Domain
		}
		j.inner.SetCookies(&neturl.URL{Scheme: scheme, Host: pc.Domain, Path: pc.Path}, []*http.Cookie{cookie})
		j.entries[pc.key()] = pc
	}
	j.logger.Debug("cookies restored", zap.String("url", j.URL), zap.Int("count", len(j.entries)))
	return nil
}
