package researchapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/service"
	"github.com/research-tracker/dashboard/internal/infrastructure/queue"
	"github.com/research-tracker/dashboard/internal/infrastructure/researchapi"
	"github.com/research-tracker/dashboard/internal/infrastructure/storage"
	"github.com/research-tracker/dashboard/internal/infrastructure/transport"
)

func liveToken(t *testing.T) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"role": "PI",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return signed
}

// fakeAPI accepts one token until revoke is called.
type fakeAPI struct {
	token   string
	revoked atomic.Bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/auth/login":
		_, _ = io.WriteString(w, `{"token":"`+f.token+`","user":{"id":"u1","username":"alice","fullName":"Alice","role":"PI"}}`)
	case "/api/projects":
		if f.revoked.Load() || r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"token revoked"}`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	default:
		http.NotFound(w, r)
	}
}

func TestSessionFlow_RejectedCredentialTearsDownSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeAPI{token: liveToken(t)}
	srv := httptest.NewServer(api)
	defer srv.Close()

	log := zerolog.Nop()
	store := storage.NewMemoryStore()
	events := queue.NewDispatcher(log)

	plain, err := researchapi.New(researchapi.Config{BaseURL: srv.URL + "/api"}, nil, log)
	require.NoError(t, err)
	session := service.NewSessionStore(store, researchapi.NewAuthGateway(plain), service.NewTokenValidator(), events, log)

	guard := service.NewAccessGuard(session, log)
	events.Subscribe("access_guard", guard.HandleSessionEvent)
	events.Start(ctx)

	client, err := researchapi.New(
		researchapi.Config{BaseURL: srv.URL + "/api"},
		transport.NewAuthenticated(nil, session, events, log),
		log,
	)
	require.NoError(t, err)

	require.NoError(t, session.Initialize(ctx))
	_, err = session.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	guard.Navigate("/projects")

	_, err = client.ListProjects(ctx)
	require.NoError(t, err)

	api.revoked.Store(true)
	_, err = client.ListProjects(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSessionInvalidated)
	assert.True(t, strings.Contains(err.Error(), "token revoked"))

	assert.False(t, session.IsAuthenticated())
	assert.Equal(t, domain.PhaseUnauthenticated, session.Phase())
	for _, key := range []string{domain.StorageKeyToken, domain.StorageKeyUser} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "%s should be cleared", key)
	}

	require.Eventually(t, func() bool { return guard.Location() == service.LoginPath }, time.Second, 5*time.Millisecond)
}

func TestSessionFlow_RefusedLoginKeepsNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Bad credentials"}`)
	}))
	defer srv.Close()

	log := zerolog.Nop()
	plain, err := researchapi.New(researchapi.Config{BaseURL: srv.URL}, nil, log)
	require.NoError(t, err)
	session := service.NewSessionStore(storage.NewMemoryStore(), researchapi.NewAuthGateway(plain), service.NewTokenValidator(), queue.NewDispatcher(log), log)
	require.NoError(t, session.Initialize(context.Background()))

	_, err = session.Login(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, domain.ErrAuthenticationRejected)
	assert.Equal(t, "Bad credentials", researchapi.Message(err, ""))
	assert.False(t, session.IsAuthenticated())
}
