package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenOptions configures token issuance and verification
type TokenOptions struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	JWKS   *keyfunc.JWKS // optional, enables RS256 tokens from an external identity provider
	Leeway time.Duration
	Now    func() time.Time
}

// Claims are the verified contents of a token
type Claims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Tokens signs and verifies bearer tokens
type Tokens struct {
	opts   TokenOptions
	parser *jwt.Parser
}

// NewTokens builds a token signer/verifier. HS256 is always accepted; RS256
// is accepted when a JWKS is configured.
func NewTokens(opts TokenOptions) *Tokens {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	methods := []string{jwt.SigningMethodHS256.Alg()}
	if opts.JWKS != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	return &Tokens{
		opts:   opts,
		parser: jwt.NewParser(jwt.WithValidMethods(methods), jwt.WithoutClaimsValidation()),
	}
}

// Issue signs an HS256 token for userID
func (t *Tokens) Issue(userID string) (string, *Claims, error) {
	now := t.opts.Now()
	c := &Claims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(t.opts.TTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   c.UserID,
		ID:        c.TokenID,
		Issuer:    t.opts.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
	})
	signed, err := token.SignedString(t.opts.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, c, nil
}

// Parse verifies the signature and time claims of a token. The issuer is
// checked for tokens signed with the local secret.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	token, err := t.parser.ParseWithClaims(tokenStr, claims, t.keyFor)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	now := t.opts.Now()
	if !claims.VerifyExpiresAt(now.Add(-t.opts.Leeway).Unix(), true) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	if !claims.VerifyNotBefore(now.Add(t.opts.Leeway).Unix(), false) {
		return nil, fmt.Errorf("%w: token not valid yet", ErrInvalidToken)
	}
	if token.Method.Alg() == jwt.SigningMethodHS256.Alg() && t.opts.Issuer != "" &&
		!claims.VerifyIssuer(t.opts.Issuer, true) {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	jti, _ := claims["jti"].(string)

	c := &Claims{UserID: sub, TokenID: jti}
	if exp, ok := claims["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return c, nil
}

func (t *Tokens) keyFor(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		return t.opts.Secret, nil
	case *jwt.SigningMethodRSA:
		if t.opts.JWKS == nil {
			return nil, errors.New("jwks not configured")
		}
		return t.opts.JWKS.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
