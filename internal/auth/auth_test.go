package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wispgate/internal/structs"
	"wispgate/pkg/config"
	"wispgate/pkg/logger"
)

func int64Ptr(v int64) *int64 { return &v }

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	claims := structs.Claims{
		Subject:  "demo",
		Email:    "demo@wispgate.local",
		IsAdmin:  false,
		ClientID: int64Ptr(42),
	}

	signed, err := tokens.Issue(claims, time.Hour)
	require.NoError(t, err)

	got, err := tokens.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "demo", got.Subject)
	require.Equal(t, "demo@wispgate.local", got.Email)
	require.False(t, got.IsAdmin)
	require.NotNil(t, got.ClientID)
	require.EqualValues(t, 42, *got.ClientID)
}

func TestTokenVerifyFailures(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	t.Run("expired", func(t *testing.T) {
		signed, err := tokens.Issue(structs.Claims{Subject: "demo"}, -time.Minute)
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, structs.StatusOf(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("other-secret", time.Hour)
		signed, err := other.Issue(structs.Claims{Subject: "demo"}, time.Hour)
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, structs.StatusOf(err))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not-a-token")
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, structs.StatusOf(err))
	})

	t.Run("missing subject", func(t *testing.T) {
		signed, err := tokens.Issue(structs.Claims{}, time.Hour)
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, structs.StatusOf(err))
	})
}

func TestCheckClientPermission(t *testing.T) {
	tests := []struct {
		name       string
		claims     structs.Claims
		clientID   int64
		wantStatus int
	}{
		{
			name:     "admin touches anyone",
			claims:   structs.Claims{Subject: "admin", IsAdmin: true},
			clientID: 99,
		},
		{
			name:     "own client allowed",
			claims:   structs.Claims{Subject: "demo", ClientID: int64Ptr(7)},
			clientID: 7,
		},
		{
			name:       "other client forbidden",
			claims:     structs.Claims{Subject: "demo", ClientID: int64Ptr(7)},
			clientID:   8,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no client binding forbidden",
			claims:     structs.Claims{Subject: "demo"},
			clientID:   7,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckClientPermission(tt.claims, tt.clientID)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tt.wantStatus, structs.StatusOf(err))
		})
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("JWT_EXPIRATION", "3600")
	t.Setenv("DATABASE_URL", "")

	return New(Params{
		Logger: logger.New("error"),
		Config: config.NewConfig(),
	})
}

func TestLoginWithSeededUsers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, "bearer", token.TokenType)
	require.Equal(t, 3600, token.ExpiresIn)

	claims, err := svc.Verify(token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Subject)
	require.True(t, claims.IsAdmin)

	_, err = svc.Login(ctx, "admin", "wrong")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, structs.StatusOf(err))

	_, err = svc.Login(ctx, "nobody", "admin123")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, structs.StatusOf(err))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, structs.RegisterRequest{
		Username: "tech",
		Password: "s3cret",
		Email:    "tech@wispgate.local",
		ClientID: int64Ptr(3),
	})
	require.NoError(t, err)
	require.Equal(t, "tech", user.Username)

	token, err := svc.Login(ctx, "tech", "s3cret")
	require.NoError(t, err)

	claims, err := svc.Verify(token.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.ClientID)
	require.EqualValues(t, 3, *claims.ClientID)

	_, err = svc.Register(ctx, structs.RegisterRequest{
		Username: "tech",
		Password: "other",
		Email:    "tech@wispgate.local",
	})
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, structs.StatusOf(err))
}
