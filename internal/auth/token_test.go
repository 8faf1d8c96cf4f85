package auth_test

import (
	"testing"
	"time"

	"github.com/d9705996/ideaportal/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-bytes-long"

func TestIssueAndParseAccessToken(t *testing.T) {
	token, err := auth.IssueAccessToken(auth.Identity{UserID: "user-1", Email: "user@example.com", FirstName: "Ann"}, testSecret, "", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseAccessToken(token, testSecret, "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.CallerID())
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "Ann", claims.FirstName)
}

func TestParseAccessToken_ExpiredToken(t *testing.T) {
	// Issue a token with a -1 minute TTL so it is already expired.
	token, err := auth.IssueAccessToken(auth.Identity{UserID: "user-1"}, testSecret, "", -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, testSecret, "")
	require.Error(t, err)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	token, err := auth.IssueAccessToken(auth.Identity{UserID: "user-1"}, testSecret, "", 15*time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, "wrong-secret", "")
	require.Error(t, err)
}

func TestParseAccessToken_Issuer(t *testing.T) {
	token, err := auth.IssueAccessToken(auth.Identity{UserID: "user-1"}, testSecret, "https://idp.example.com", 15*time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, testSecret, "https://idp.example.com")
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, testSecret, "https://other.example.com")
	require.Error(t, err)
}

func TestParseAccessToken_SubFallback(t *testing.T) {
	claims := jwt.MapClaims{"sub": "idp|42", "exp": time.Now().Add(time.Minute).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	got, err := auth.ParseAccessToken(token, testSecret, "")
	require.NoError(t, err)
	assert.Equal(t, "idp|42", got.CallerID())
}

func TestParseAccessToken_NoSubject(t *testing.T) {
	token, err := auth.IssueAccessToken(auth.Identity{}, testSecret, "", time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, testSecret, "")
	require.Error(t, err)
}

func TestParseAccessToken_Garbage(t *testing.T) {
	_, err := auth.ParseAccessToken("not.a.jwt", testSecret, "")
	require.Error(t, err)
}
