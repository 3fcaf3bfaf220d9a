package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
)

// ErrUnauthorized indicates a missing, malformed, expired or otherwise
// unverifiable bearer credential.
var ErrUnauthorized = errors.New("invalid or expired token")

const jwksCacheTTL = 10 * time.Minute

// Verifier validates provider-issued bearer tokens. HS* algorithms verify
// against the configured shared secret; RS* algorithms verify against the
// provider's published signing keys, fetched lazily and cached.
type Verifier struct {
	alg     string
	issuer  string
	secret  []byte
	jwksURL string
	httpc   *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewVerifier(baseURL, alg, issuer, secret string) *Verifier {
	return &Verifier{
		alg:     alg,
		issuer:  issuer,
		secret:  []byte(secret),
		jwksURL: strings.TrimRight(baseURL, "/") + "/auth/v1/keys",
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verify checks signature, expiry and issuer, and returns the token subject.
func (v *Verifier) Verify(ctx context.Context, token string) (domain.Subject, error) {
	claims := &tokenClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.signingKey(ctx, t)
	},
		jwt.WithValidMethods([]string{v.alg}),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return domain.Subject{}, ErrUnauthorized
	}
	if claims.Subject == "" {
		return domain.Subject{}, fmt.Errorf("%w: missing subject claim", ErrUnauthorized)
	}

	return domain.Subject{ID: claims.Subject, Email: claims.Email}, nil
}

func (v *Verifier) signingKey(ctx context.Context, t *jwt.Token) (any, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) == 0 {
			return nil, errors.New("shared jwt secret is not configured")
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA:
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid header")
		}
		return v.publicKey(ctx, kid)
	default:
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
}

// publicKey resolves a signing key by kid, refreshing the cached key set when
// it is stale or the kid is unknown.
func (v *Verifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Since(v.fetchedAt) < jwksCacheTTL
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	key, ok = v.keys[kid]
	v.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no signing key for kid %q", kid)
	}
	return key, nil
}

func (v *Verifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("build key set request: %w", err)
	}

	resp, err := v.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch key set: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read key set: %w", err)
	}

	var keySet struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.Unmarshal(body, &keySet); err != nil {
		return fmt.Errorf("decode key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(keySet.Keys))
	for _, k := range keySet.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaKeyFromJWK(k.N, k.E)
		if err != nil {
			return fmt.Errorf("parse key %q: %w", k.Kid, err)
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("provider key set contains no usable keys")
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}

	exponent := 0
	for _, b := range eBytes {
		exponent = exponent<<8 | int(b)
	}
	if exponent == 0 {
		return nil, errors.New("zero exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: exponent,
	}, nil
}
