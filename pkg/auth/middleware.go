package auth

import (
	"context"
	"net/http"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils/cache"
)

type (
	authMiddleware struct {
		adminToken   string
		userCache    cache.Cache[string, model.User]
		extra        []AuthenticationProvider
		authProvider []AuthenticationProvider
		l            *log.Logger
	}
	Option func(*authMiddleware)
)

func WithAdminToken(token string) Option {
	return func(m *authMiddleware) {
		m.adminToken = token
	}
}

func WithUserCache(arg cache.Cache[string, model.User]) Option {
	return func(m *authMiddleware) {
		m.userCache = arg
	}
}

// WithProvider adds providers which are consulted after the api-token check
func WithProvider(p ...AuthenticationProvider) Option {
	return func(m *authMiddleware) {
		m.extra = append(m.extra, p...)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *authMiddleware) {
		m.l = l
	}
}

// NewMiddleware resolves the Authentication of each request and stores it
// in the request context. Requests without valid credentials are anonymous.
func NewMiddleware(opts ...Option) func(http.Handler) http.Handler {
	m := &authMiddleware{
		l: log.Default().Named("auth"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.authProvider = append(m.authProvider,
		NewAPIKeyAuthenticator(m.adminToken, m.userCache))
	m.authProvider = append(m.authProvider, m.extra...)
	m.authProvider = append(m.authProvider, &anonymousAuthenticator{})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := m.handleAuth(r.Context(), r.Header)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *authMiddleware) handleAuth(ctx context.Context, h http.Header) context.Context {
	for _, p := range m.authProvider {
		a, err := p.Authenticate(ctx, h)
		if a != nil {
			return NewContext(ctx, a)
		}
		if err != nil {
			m.l.Warn("error authenticating", log.ErrorField(err))
		}
	}
	return ctx
}
