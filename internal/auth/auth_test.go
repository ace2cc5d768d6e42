package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/testutil"
)

var testSecret = []byte("test-secret")

func newTokens(now func() time.Time) *Tokens {
	return NewTokens(TokenOptions{Secret: testSecret, TTL: time.Hour, Issuer: "motocrm", Now: now})
}

// ============================================================================
// Tokens
// ============================================================================

func TestTokens_IssueAndParse(t *testing.T) {
	t.Parallel()
	tokens := newTokens(nil)

	signed, issued, err := tokens.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.Equal(t, issued.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokens_Rejects(t *testing.T) {
	t.Parallel()
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := newTokens(past).Issue("user-1")
	require.NoError(t, err)

	otherIssuer, _, err := NewTokens(TokenOptions{Secret: testSecret, TTL: time.Hour, Issuer: "someone-else"}).Issue("user-1")
	require.NoError(t, err)

	otherSecret, _, err := NewTokens(TokenOptions{Secret: []byte("nope"), TTL: time.Hour, Issuer: "motocrm"}).Issue("user-1")
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
		"iss": "motocrm",
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong issuer", otherIssuer},
		{"wrong secret", otherSecret},
		{"missing subject", noSub},
	}

	tokens := newTokens(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokens_RS256WithoutJWKS(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "ext-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(key)
	require.NoError(t, err)

	_, err = newTokens(nil).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RS256WithJWKS(t *testing.T) {
	t.Parallel()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwksJSON, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "test-key",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	require.NoError(t, err)
	jwks, err := keyfunc.NewJSON(jwksJSON)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": "ext-user",
		"iss": "https://idp.example.com/",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	tokens := NewTokens(TokenOptions{Secret: testSecret, TTL: time.Hour, Issuer: "motocrm", JWKS: jwks})
	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "ext-user", claims.UserID)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tok, err := BearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = BearerToken("bearer  a.b.c ")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = BearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ============================================================================
// Revocation stores
// ============================================================================

func TestMemoryRevocationStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryRevocationStore()
	clock := time.Now()
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Revoke(ctx, "a", clock.Add(time.Minute)))
	require.NoError(t, store.Revoke(ctx, "stale", clock.Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = store.IsRevoked(ctx, "stale")
	assert.False(t, revoked)

	clock = clock.Add(2 * time.Minute)
	revoked, _ = store.IsRevoked(ctx, "a")
	assert.False(t, revoked, "revocation lapses with the token")

	require.NoError(t, store.Revoke(ctx, "b", clock.Add(time.Minute)))
	assert.Len(t, store.revoked, 1, "lapsed entries are pruned")
}

func TestRedisRevocationStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := NewRedisRevocationStore(client)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(10*time.Minute)))
	assert.True(t, mr.Exists("motocrm:revoked:jti-1"))
	ttl := mr.TTL("motocrm:revoked:jti-1")
	assert.True(t, ttl > 9*time.Minute && ttl <= 10*time.Minute, "unexpected TTL %v", ttl)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(11 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "old", time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists("motocrm:revoked:old"))
}

func TestNewRedisRevocationStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisRevocationStoreFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = NewRedisRevocationStoreFromURL(context.Background(), "::bad::")
	assert.Error(t, err)
}

// ============================================================================
// Service
// ============================================================================

func setupService(t *testing.T) Service {
	t.Helper()
	_, repo := testutil.SetupTestRepo(t)
	return NewService(repo, Options{Tokens: newTokens(nil), BcryptCost: bcrypt.MinCost})
}

func TestService_SignUpSignIn(t *testing.T) {
	t.Parallel()
	_, repo := testutil.SetupTestRepo(t)
	svc := NewService(repo, Options{Tokens: newTokens(nil), BcryptCost: bcrypt.MinCost})
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "  Rider@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", user.Email)

	cols, err := repo.ListColumns(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, "New Leads", cols[0].Name)
	assert.Equal(t, "Closed", cols[3].Name)

	sess, err := svc.SignIn(ctx, "rider@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.User.ID)

	userID, err := svc.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	me, err := svc.CurrentUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)
}

func TestService_SignUpValidation(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "secret1", ErrInvalidEmail},
		{"no at", "rider.example.com", "secret1", ErrInvalidEmail},
		{"no domain dot", "rider@localhost", "secret1", ErrInvalidEmail},
		{"display name", "Rider <rider@example.com>", "secret1", ErrInvalidEmail},
		{"short password", "rider@example.com", "12345", ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.SignUp(ctx, "dup@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "DUP@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_SignUpSeedFailureFreesEmail(t *testing.T) {
	t.Parallel()
	db, repo := testutil.SetupTestRepo(t)
	svc := NewService(repo, Options{Tokens: newTokens(nil), BcryptCost: bcrypt.MinCost})
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `DROP TABLE columns`)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "rider@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)

	_, err = repo.GetUserByEmail(ctx, "rider@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound, "no account is left behind")
}

func TestService_SignInFailures(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "rider@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "rider@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_SignOutRevokes(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "rider@example.com", "secret1")
	require.NoError(t, err)
	sess, err := svc.SignIn(ctx, "rider@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, sess.Token))

	_, err = svc.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	other, err := svc.SignIn(ctx, "rider@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Verify(ctx, other.Token)
	assert.NoError(t, err, "other sessions stay valid")
}

func TestService_CurrentUserMissing(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	_, err := svc.CurrentUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_LookupUser(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "rider@example.com", "secret1")
	require.NoError(t, err)

	found, err := svc.LookupUser(ctx, " RIDER@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.LookupUser(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.LookupUser(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}
