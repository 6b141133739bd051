package gate

import (
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

// MemoryStorage keeps values in process; tests use it to simulate a browser
// that survives reloads.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// cookieMaxAge stands in for "never expires".
const cookieMaxAge = 10 * 365 * 24 * time.Hour

// CookieStorage stores values as cookies on the visitor's browser. Values are
// base64url encoded so JSON survives cookie syntax. Writes are visible to Get
// within the same request.
type CookieStorage struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	pending map[string]string
}

func NewCookieStorage(w http.ResponseWriter, r *http.Request, secure bool) *CookieStorage {
	return &CookieStorage{w: w, r: r, secure: secure, pending: map[string]string{}}
}

func (c *CookieStorage) Get(key string) (string, bool) {
	if v, ok := c.pending[key]; ok {
		return v, true
	}
	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return "", false
	}
	return string(raw), true
}

func (c *CookieStorage) Set(key, value string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(value)),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.pending[key] = value
	return nil
}
