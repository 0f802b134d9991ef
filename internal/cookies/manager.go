package cookies

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option overrides a default cookie attribute
type Option func(*http.Cookie)

// WithMaxAge overrides the default seven day lifetime
func WithMaxAge(d time.Duration) Option {
	return func(c *http.Cookie) {
		c.MaxAge = int(d.Seconds())
	}
}

// WithPath overrides the default "/" path
func WithPath(path string) Option {
	return func(c *http.Cookie) {
		c.Path = path
	}
}

// WithSameSite overrides the default SameSite=None
func WithSameSite(mode http.SameSite) Option {
	return func(c *http.Cookie) {
		c.SameSite = mode
	}
}

// WithSecure overrides the default Secure=true
func WithSecure(secure bool) Option {
	return func(c *http.Cookie) {
		c.Secure = secure
	}
}

// Manager writes and reads encrypted cookies. Every value passes through
// the codec, so personalization state is opaque on the wire.
type Manager struct {
	codec *Codec
	log   zerolog.Logger
}

// NewManager creates a cookie manager around the given codec
func NewManager(codec *Codec, log zerolog.Logger) *Manager {
	return &Manager{
		codec: codec,
		log:   log.With().Str("component", "cookies").Logger(),
	}
}

// Set encrypts value and writes cookie name with the default attributes
// (HttpOnly, SameSite=None, Secure, MaxAge 7 days), each overridable
// through options.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	token, err := m.codec.Encrypt(value)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	}
	for _, opt := range opts {
		opt(cookie)
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get returns the decrypted value of cookie name, or "" when the cookie
// is absent or fails to decrypt. Decryption failures are logged and
// treated as an absent cookie, never propagated.
func (m *Manager) Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}

	value, err := m.codec.Decrypt(cookie.Value)
	if err != nil {
		m.log.Warn().Err(err).Str("cookie", name).Msg("Failed to decrypt cookie")
		return ""
	}
	return value
}

// Delete expires cookie name
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
		MaxAge:   -1,
	})
}
