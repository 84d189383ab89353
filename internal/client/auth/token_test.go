package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkorolis/imagepoints/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecode_SegmentCount(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "one segment", token: "abc"},
		{name: "two segments", token: "abc.def"},
		{name: "four segments", token: "a.b.c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			assert.ErrorIs(t, err, common.ErrMalformedToken)

			info := Evaluate(tt.token, time.Now())
			assert.False(t, info.IsValid)
			assert.True(t, info.IsExpired)
			assert.Nil(t, info.Claims)
		})
	}
}

func TestDecode_InvalidEncoding(t *testing.T) {
	_, err := Decode("aaa.!not-base64!.ccc")
	assert.ErrorIs(t, err, common.ErrInvalidEncoding)
}

func TestDecode_MapsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	iat := time.Now().Add(-time.Minute).Truncate(time.Second)

	token := makeToken(t, jwt.MapClaims{
		"sub":    "42",
		"email":  "user@example.com",
		"name":   "User",
		"role":   "member",
		"exp":    exp.Unix(),
		"iat":    iat.Unix(),
		"tenant": "acme",
	})

	claims, err := Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "User", claims.Name)
	assert.Equal(t, "member", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, iat.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, "acme", claims.Extra["tenant"])
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		claims *Claims
		want   bool
	}{
		{name: "nil claims", claims: nil, want: true},
		{name: "no expiry fails closed", claims: &Claims{Subject: "x"}, want: true},
		{name: "expiry in the past", claims: &Claims{ExpiresAt: &past}, want: true},
		{name: "expiry exactly now", claims: &Claims{ExpiresAt: &now}, want: true},
		{name: "expiry in the future", claims: &Claims{ExpiresAt: &future}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(tt.claims, now))
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Now()

	valid := makeToken(t, jwt.MapClaims{"sub": "1", "exp": now.Add(time.Hour).Unix()})
	info := Evaluate(valid, now)
	assert.True(t, info.IsValid)
	assert.False(t, info.IsExpired)
	require.NotNil(t, info.ExpiresAt)

	expired := makeToken(t, jwt.MapClaims{"sub": "1", "exp": now.Add(-time.Hour).Unix()})
	info = Evaluate(expired, now)
	assert.False(t, info.IsValid)
	assert.True(t, info.IsExpired)
	require.NotNil(t, info.Claims)

	noExpiry := makeToken(t, jwt.MapClaims{"sub": "1"})
	info = Evaluate(noExpiry, now)
	assert.False(t, info.IsValid)
	assert.True(t, info.IsExpired)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Unknown", (*Claims)(nil).DisplayName())
	assert.Equal(t, "Unknown", (&Claims{}).DisplayName())
	assert.Equal(t, "42", (&Claims{Subject: "42"}).DisplayName())
	assert.Equal(t, "a@b.c", (&Claims{Subject: "42", Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "User", (&Claims{Subject: "42", Email: "a@b.c", Name: "User"}).DisplayName())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Invalid token", TokenInfo{}.Describe())

	now := time.Now()
	token := makeToken(t, jwt.MapClaims{"sub": "1", "name": "User", "exp": now.Add(time.Hour).Unix()})
	out := Evaluate(token, now).Describe()
	assert.Contains(t, out, "Status: Valid")
	assert.Contains(t, out, "User: User")
	assert.Contains(t, out, "Role: Not specified")
}
