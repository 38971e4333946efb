package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Service validates operator API tokens and enforces role-based access to the
// admin endpoints. Tokens are configured from the environment and held only
// as sha256 hashes.
type Service struct {
	tokens   map[string]string // sha256(token) hex -> role
	enforcer *casbin.Enforcer
}

// NewService builds a Service from a comma-separated "token:role" spec, e.g.
// "s3cret:admin,readonly:viewer".
func NewService(tokenSpec string) (*Service, error) {
	// Initialize Casbin
	m, err := model.NewModelFromString(`
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	// Admin can do everything
	e.AddPolicy("admin", "*", "*")
	// Viewer can only read
	e.AddPolicy("viewer", "stores", "read")
	e.AddPolicy("viewer", "events", "read")

	s := &Service{
		tokens:   make(map[string]string),
		enforcer: e,
	}

	for _, entry := range strings.Split(tokenSpec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, role, found := strings.Cut(entry, ":")
		if !found || token == "" {
			return nil, errors.New("malformed admin token entry, want token:role")
		}
		if role != "admin" && role != "viewer" {
			return nil, errors.New("unknown admin token role: " + role)
		}
		s.tokens[hashToken(token)] = role
	}

	return s, nil
}

// Enabled reports whether any admin tokens are configured.
func (s *Service) Enabled() bool {
	return len(s.tokens) > 0
}

// ValidateToken resolves a raw bearer token to its role.
func (s *Service) ValidateToken(rawToken string) (string, error) {
	h := hashToken(rawToken)
	for stored, role := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(stored), []byte(h)) == 1 {
			return role, nil
		}
	}
	return "", errors.New("invalid token")
}

// Enforce checks whether the role may perform act on obj.
func (s *Service) Enforce(role, obj, act string) (bool, error) {
	return s.enforcer.Enforce(role, obj, act)
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
