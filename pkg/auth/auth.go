package auth

import (
	"context"
	"errors"
	"net/http"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

type (
	Principal interface {
		Name() string
	}

	Authentication interface {
		Principal() Principal
		Roles() []Role
	}

	// AuthenticationProvider returns nil, nil if the request does not
	// contain credentials it is responsible for.
	AuthenticationProvider interface {
		Authenticate(ctx context.Context, h http.Header) (Authentication, error)
	}
)

type (
	SimplePrincipal struct {
		name string
	}
	SimpleAuth struct {
		principal Principal
		roles     []Role
	}
)

func NewSimpleAuth(name string, roles ...Role) *SimpleAuth {
	return &SimpleAuth{principal: &SimplePrincipal{name: name}, roles: roles}
}

func (s *SimplePrincipal) Name() string {
	return s.name
}

func (s *SimpleAuth) Principal() Principal {
	return s.principal
}

func (s *SimpleAuth) Roles() []Role {
	return s.roles
}

// Anonymous is used for requests without (valid) credentials
var Anonymous Authentication = NewSimpleAuth("anon")

type authCtxKey struct{}

func NewContext(ctx context.Context, a Authentication) context.Context {
	return context.WithValue(ctx, authCtxKey{}, a)
}

// FromContext returns the authentication of the request, Anonymous if none was set
func FromContext(ctx context.Context) Authentication {
	if ctx == nil {
		return Anonymous
	}
	if a, ok := ctx.Value(authCtxKey{}).(Authentication); ok {
		return a
	}
	return Anonymous
}

func HasRole(a Authentication, role Role) bool {
	for _, r := range a.Roles() {
		if r == role {
			return true
		}
	}
	return false
}
