package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// discoveryTimeout bounds the one-shot fetch of provider metadata.
const discoveryTimeout = 10 * time.Second

// OIDCProvider is the subset of an OpenID Connect discovery document the
// service cares about.
type OIDCProvider struct {
	Issuer                   string   `json:"issuer"`
	AuthorizationEndpoint    string   `json:"authorization_endpoint"`
	TokenEndpoint            string   `json:"token_endpoint"`
	UserinfoEndpoint         string   `json:"userinfo_endpoint"`
	JWKSURI                  string   `json:"jwks_uri"`
	ScopesSupported          []string `json:"scopes_supported"`
	ResponseTypesSupported   []string `json:"response_types_supported"`
	GrantTypesSupported      []string `json:"grant_types_supported"`
	SubjectTypesSupported    []string `json:"subject_types_supported"`
	IDTokenSigningAlgValues  []string `json:"id_token_signing_alg_values_supported"`
	TokenEndpointAuthMethods []string `json:"token_endpoint_auth_methods_supported"`
}

// NewOIDCProvider reads the provider metadata published at
// <issuer>/.well-known/openid-configuration. Any compliant issuer
// (Keycloak, Auth0, Azure AD, Google) can back token validation this way
// without hand-configuring a JWKS URL.
func NewOIDCProvider(issuerURL string) (*OIDCProvider, error) {
	wellKnown := strings.TrimRight(issuerURL, "/") + "/.well-known/openid-configuration"

	client := &http.Client{Timeout: discoveryTimeout}
	resp, err := client.Get(wellKnown)
	if err != nil {
		return nil, fmt.Errorf("fetch discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery endpoint answered %d", resp.StatusCode)
	}

	var p OIDCProvider
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode discovery document: %w", err)
	}
	if p.JWKSURI == "" {
		return nil, errors.New("discovery document has no jwks_uri")
	}
	return &p, nil
}

// JWKSKeyFunc validates token signatures against the provider's
// published keys, cached with the default TTL.
func (p *OIDCProvider) JWKSKeyFunc() jwt.Keyfunc {
	return keyFuncFor(p.JWKSURI)
}

// SupportsScope reports whether the provider advertises the scope.
func (p *OIDCProvider) SupportsScope(scope string) bool {
	for _, s := range p.ScopesSupported {
		if s == scope {
			return true
		}
	}
	return false
}
