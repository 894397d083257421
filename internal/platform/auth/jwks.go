package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultJWKSCacheTTL is how long fetched signing keys stay fresh.
const defaultJWKSCacheTTL = 5 * time.Minute

// JWKSKey is a single JSON Web Key as published by an identity provider.
type JWKSKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSResponse is the document served at a provider's jwks_uri.
type JWKSResponse struct {
	Keys []JWKSKey `json:"keys"`
}

// JWKSCache holds the provider's RSA public keys in memory and refetches
// them when the TTL lapses or an unknown key ID shows up, which covers
// provider-side key rotation without a restart.
type JWKSCache struct {
	url    string
	ttl    time.Duration
	client *http.Client

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

func NewJWKSCache(jwksURL string, ttl time.Duration) *JWKSCache {
	return &JWKSCache{
		url:    jwksURL,
		ttl:    ttl,
		client: &http.Client{Timeout: 10 * time.Second},
		keys:   make(map[string]*rsa.PublicKey),
	}
}

// GetKey returns the public key for the given key ID, refreshing the
// cache once if the entry is stale or missing.
func (c *JWKSCache) GetKey(kid string) (*rsa.PublicKey, error) {
	if key, ok := c.lookup(kid); ok {
		return key, nil
	}
	if err := c.refresh(); err != nil {
		return nil, err
	}
	if key, ok := c.lookup(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("signing key %q not in JWKS", kid)
}

func (c *JWKSCache) lookup(kid string) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if time.Now().After(c.expires) {
		return nil, false
	}
	key, ok := c.keys[kid]
	return key, ok
}

func (c *JWKSCache) refresh() error {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint answered %d", resp.StatusCode)
	}

	var set JWKSResponse
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode JWKS: %w", err)
	}

	// Malformed or non-RSA entries are skipped rather than failing the
	// whole set, so one bad key cannot lock everyone out.
	fresh := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k)
		if err != nil {
			continue
		}
		fresh[k.Kid] = pub
	}

	c.mu.Lock()
	c.keys = fresh
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

// rsaKeyFromJWK rebuilds an RSA public key from its base64url modulus
// and exponent.
func rsaKeyFromJWK(k JWKSKey) (*rsa.PublicKey, error) {
	mod, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("modulus of key %q: %w", k.Kid, err)
	}
	exp, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("exponent of key %q: %w", k.Kid, err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(mod),
		E: int(new(big.Int).SetBytes(exp).Int64()),
	}, nil
}

// keyFuncFor resolves token signing keys against a JWKS endpoint through
// a shared cache.
func keyFuncFor(jwksURL string) jwt.Keyfunc {
	cache := NewJWKSCache(jwksURL, defaultJWKSCacheTTL)
	return func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, errors.New("token header missing kid")
		}
		return cache.GetKey(kid)
	}
}
