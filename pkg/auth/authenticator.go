package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/utils/cache"
)

const (
	TokenHeader         = "api-token"
	AuthorizationHeader = "Authorization"
)

type (
	anonymousAuthenticator struct{}
	apiKeyAuthenticator    struct {
		adminToken string
		userCache  cache.Cache[string, model.User]
	}
	claimsVerifier func(ctx context.Context, rawToken string) (map[string]any, error)
	oidcAuthenticator struct {
		verify        claimsVerifier
		usernameClaim string
	}
)

//nolint:whitespace // editor/linter issue
func (a *anonymousAuthenticator) Authenticate(
	ctx context.Context,
	h http.Header,
) (Authentication, error) {
	return Anonymous, nil
}

// NewAPIKeyAuthenticator handles the api-token header. The token is either the
// admin token or the api key of a user. Users are looked up by the hash of the key.
//
//nolint:whitespace // editor/linter issue
func NewAPIKeyAuthenticator(
	adminToken string,
	userCache cache.Cache[string, model.User],
) AuthenticationProvider {
	return &apiKeyAuthenticator{adminToken: adminToken, userCache: userCache}
}

//nolint:whitespace // editor/linter issue
func (a *apiKeyAuthenticator) Authenticate(
	ctx context.Context,
	h http.Header,
) (Authentication, error) {
	token := h.Get(TokenHeader)
	if token == "" {
		return nil, nil
	}
	if a.adminToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) == 1 {
		return NewSimpleAuth("admin", RoleAdmin), nil
	}
	if a.userCache == nil {
		return nil, ErrUnauthenticated
	}
	u, err := a.userCache.Get(ctx, utils.HashAPIKey(token))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return NewSimpleAuth(u.Username, RoleUser), nil
}

// NewOIDCAuthenticator verifies bearer ID tokens issued by issuerURL for clientID.
// The username is read from usernameClaim.
//
//nolint:whitespace // editor/linter issue
func NewOIDCAuthenticator(
	ctx context.Context,
	issuerURL, clientID, usernameClaim string,
) (AuthenticationProvider, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, err
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})
	return newOIDCAuthenticator(
		func(ctx context.Context, rawToken string) (map[string]any, error) {
			idToken, err := verifier.Verify(ctx, rawToken)
			if err != nil {
				return nil, err
			}
			claims := map[string]any{}
			if err := idToken.Claims(&claims); err != nil {
				return nil, err
			}
			return claims, nil
		},
		usernameClaim), nil
}

func newOIDCAuthenticator(verify claimsVerifier, usernameClaim string) *oidcAuthenticator {
	if usernameClaim == "" {
		usernameClaim = "preferred_username"
	}
	return &oidcAuthenticator{verify: verify, usernameClaim: usernameClaim}
}

//nolint:whitespace // editor/linter issue
func (a *oidcAuthenticator) Authenticate(
	ctx context.Context,
	h http.Header,
) (Authentication, error) {
	value := h.Get(AuthorizationHeader)
	rawToken, ok := strings.CutPrefix(value, "Bearer ")
	if !ok || rawToken == "" {
		return nil, nil
	}
	claims, err := a.verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	username, ok := claims[a.usernameClaim].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("%w: claim %s missing", ErrUnauthenticated, a.usernameClaim)
	}
	return NewSimpleAuth(username, RoleUser), nil
}
