package mock

import (
	"crypto/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/authclient/client/auth/credential"
)

// Cookie names used in cookie mode
const (
	AccessCookieName  = "access_token_cookie"
	RefreshCookieName = "refresh_token_cookie"
)

type user struct {
	passwordHash   []byte
	failedAttempts int
	lastFailed     time.Time
}

// Backend emulates the authentication API.
type Backend struct {
	Mode             credential.Mode
	SecretKey        []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	SecureCookies    bool
	LockoutThreshold int
	LockoutTime      time.Duration
	Now              func() time.Time

	// ProtectedHandler overrides the /protected response for authorized callers.
	ProtectedHandler http.HandlerFunc

	mu            sync.Mutex
	users         map[string]*user
	generation    int64
	rejectRefresh bool

	LoginCalls     int32
	RefreshCalls   int32
	ProtectedCalls int32
}

// ExpireAccessTokens invalidates every access token issued so far.
func (b *Backend) ExpireAccessTokens() {
	atomic.AddInt64(&b.generation, 1)
}

// RejectRefresh makes /refresh answer 401 while enabled.
func (b *Backend) RejectRefresh(reject bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectRefresh = reject
}

func (b *Backend) refreshRejected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rejectRefresh
}

func (b *Backend) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Counts returns login, refresh and protected call counters.
func (b *Backend) Counts() (login, refresh, protected int) {
	return int(atomic.LoadInt32(&b.LoginCalls)), int(atomic.LoadInt32(&b.RefreshCalls)), int(atomic.LoadInt32(&b.ProtectedCalls))
}

// NewBackend creates a backend for mode with a random signing key
func NewBackend(mode credential.Mode) (*Backend, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return &Backend{
		Mode:             mode,
		SecretKey:        key,
		AccessTTL:        10 * time.Hour,
		RefreshTTL:       100 * time.Hour,
		LockoutThreshold: 5,
		LockoutTime:      10 * time.Minute,
		users:            map[string]*user{},
	}, nil
}
