// Package personalization decorates each request with state derived from
// the visitor's encrypted cookies. Neither stage short-circuits; handlers
// downstream read the attached state via FromContext.
package personalization

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/homescope/listings/internal/cookies"
)

// Cookie names read and written by the personalization layer
const (
	CookieRecentSearches    = "recentSearches"
	CookiePreferredLocation = "preferredLocation"
	CookiePreferredType     = "preferredPropertyType"
	CookiePreferredFor      = "preferredPropertyFor"
)

type contextKey string

const (
	recentSearchesKey  contextKey = "recentSearches"
	personalizationKey contextKey = "personalization"
)

// State is the request-scoped personalization snapshot
type State struct {
	RecentSearches []string
}

// Middleware wires the two personalization stages
type Middleware struct {
	cookies *cookies.Manager
	log     zerolog.Logger
}

// New creates the personalization middleware
func New(manager *cookies.Manager, log zerolog.Logger) *Middleware {
	return &Middleware{
		cookies: manager,
		log:     log.With().Str("component", "personalization").Logger(),
	}
}

// WithRecentSearches is stage 1: it reads the recentSearches cookie and
// attaches the decoded list (empty when absent or unreadable) to the
// request context.
func (m *Middleware) WithRecentSearches(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searches := []string{}

		if raw := m.cookies.Get(r, CookieRecentSearches); raw != "" {
			if err := json.Unmarshal([]byte(raw), &searches); err != nil {
				m.log.Warn().Err(err).Msg("Failed to decode recent searches cookie")
				searches = []string{}
			}
		}

		ctx := context.WithValue(r.Context(), recentSearchesKey, searches)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithPersonalization is stage 2: it normalizes the stage 1 value into a
// State on the context. Must run after WithRecentSearches.
func (m *Middleware) WithPersonalization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searches, _ := r.Context().Value(recentSearchesKey).([]string)
		if searches == nil {
			searches = []string{}
		}

		state := State{RecentSearches: searches}
		ctx := context.WithValue(r.Context(), personalizationKey, state)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the personalization state attached by the middleware
func FromContext(ctx context.Context) State {
	if state, ok := ctx.Value(personalizationKey).(State); ok {
		return state
	}
	return State{RecentSearches: []string{}}
}
