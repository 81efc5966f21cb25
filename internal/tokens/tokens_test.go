package tokens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager([]byte("test-secret"), time.Hour)
	m.Now = clock.Now
	return m, clock
}

func TestManager_IssueVerify(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()
	token, exp, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, clock.t.Add(time.Hour), exp, 0)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	claims, err := m.Claims(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestManager_Expiry(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()
	token, _, err := m.Issue(7)
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	_, err = m.Verify(token)
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Minute)
	_, err = m.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_DefaultTTL(t *testing.T) {
	t.Parallel()

	m := NewManager([]byte("s"), 0)
	assert.Equal(t, DefaultTTL, m.TTL)
}

func TestManager_RejectsTampered(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager()
	token, _, err := m.Issue(1)
	require.NoError(t, err)

	other, _, err := m.Issue(2)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{name: "swapped payload", token: forged},
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "empty", token: ""},
		{name: "truncated signature", token: token[:len(token)-4]},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestManager_RejectsWrongSecretAndAlgorithm(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()
	claims := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}}

	wrongSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = m.Verify(wrongSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsBadSubjectAndMissingExpiry(t *testing.T) {
	t.Parallel()

	m, clock := newTestManager()

	badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}}).SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Verify(badSub)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "1",
	}}).SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
