// Package clerk verifies Clerk session tokens against the instance JWKS.
package clerk

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"photorestore/internal/domain"
)

const (
	defaultKeyTTL     = time.Hour
	defaultMinRefresh = 10 * time.Second
	maxCachedKeys     = 16
	leeway            = 5 * time.Second
)

var errUnknownKid = errors.New("unknown kid")

type jwks struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Claims are the session token claims we read.
type Claims struct {
	jwt.RegisteredClaims
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
}

// Options configures a Verifier.
type Options struct {
	Issuer            string
	JWKSURL           string
	AuthorizedParties []string
	HTTPClient        *http.Client
}

// Verifier checks RS256 session tokens. Public keys are cached by kid and
// expire after an hour; an unknown kid triggers one JWKS refresh.
type Verifier struct {
	issuer     string
	jwksURL    string
	parties    []string
	httpClient *http.Client
	keys       *expirable.LRU[string, *rsa.PublicKey]

	mu          sync.Mutex
	lastRefresh time.Time
	minRefresh  time.Duration
}

func NewVerifier(opts Options) *Verifier {
	issuer := strings.TrimRight(opts.Issuer, "/")
	jwksURL := opts.JWKSURL
	if jwksURL == "" {
		jwksURL = issuer + "/.well-known/jwks.json"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Verifier{
		issuer:     issuer,
		jwksURL:    jwksURL,
		parties:    opts.AuthorizedParties,
		httpClient: client,
		keys:       expirable.NewLRU[string, *rsa.PublicKey](maxCachedKeys, nil, defaultKeyTTL),
		minRefresh: defaultMinRefresh,
	}
}

// Verify validates token and returns its claims. Every failure wraps
// domain.ErrUnauthorized.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}
	if !partyAllowed(claims.AuthorizedParty, v.parties) {
		return nil, fmt.Errorf("%w: unauthorized party %q", domain.ErrUnauthorized, claims.AuthorizedParty)
	}
	return claims, nil
}

// VerifySubject returns the user id carried by token.
func (v *Verifier) VerifySubject(ctx context.Context, token string) (string, error) {
	claims, err := v.Verify(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, errors.New("token header has no kid")
	}
	if pk, ok := v.keys.Get(kid); ok {
		return pk, nil
	}
	if err := v.refresh(ctx); err != nil {
		return nil, err
	}
	if pk, ok := v.keys.Get(kid); ok {
		return pk, nil
	}
	return nil, errUnknownKid
}

func (v *Verifier) refresh(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.lastRefresh.IsZero() && time.Since(v.lastRefresh) < v.minRefresh && v.keys.Len() > 0 {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}
	added := 0
	for _, key := range set.Keys {
		if key.Kty != "RSA" || key.Kid == "" || (key.Use != "" && key.Use != "sig") {
			continue
		}
		pub, err := rsaKeyFromJWK(key)
		if err != nil {
			continue
		}
		v.keys.Add(key.Kid, pub)
		added++
	}
	v.lastRefresh = time.Now()
	if added == 0 {
		return errors.New("jwks contained no usable keys")
	}
	return nil
}

// partyAllowed accepts tokens without azp. When azp is present and a list
// is configured, it must be on the list.
func partyAllowed(azp string, parties []string) bool {
	if azp == "" || len(parties) == 0 {
		return true
	}
	return slices.Contains(parties, strings.TrimRight(azp, "/"))
}

func rsaKeyFromJWK(j jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eBytes {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}
