package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestIssuer_Verify_Rejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	userID := uuid.New()

	expired := NewIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(userID)
	require.NoError(t, err)

	otherKey, _, err := NewIssuer("other", time.Hour).Issue(userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Garbage", token: "not-a-token"},
		{name: "Expired", token: expiredToken},
		{name: "WrongKey", token: otherKey},
		{name: "NoneAlgorithm", token: noneToken},
		{name: "NonUUIDSubject", token: badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	userID := uuid.New()

	token, _, err := issuer.Issue(userID)
	require.NoError(t, err)

	var seen uuid.UUID

	handler := issuer.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = Owner(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "Valid", header: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, userID, seen)
			} else {
				assert.Equal(t, uuid.Nil, seen)
			}
		})
	}
}
