package authstate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/authportal/internal/auth"
	"github.com/GoPowerDNS-Admin/authportal/internal/gateway"
	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

var testUser = identity.User{ID: "u-1", FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com", Status: identity.StatusActive}

// fakeGateway accepts the token "valid" and the password "secret123".
type fakeGateway struct {
	meCalls  atomic.Int32
	meDelay  time.Duration
	meStatus int
}

func (f *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case gateway.PathMe:
		f.meCalls.Add(1)
		time.Sleep(f.meDelay)

		if f.meStatus != 0 {
			w.WriteHeader(f.meStatus)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))

			return
		}

		if r.Header.Get("Authorization") != "Bearer valid" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))

			return
		}

		_ = json.NewEncoder(w).Encode(testUser)
	case gateway.PathLogin:
		var in identity.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)

		if in.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))

			return
		}

		u := testUser
		_ = json.NewEncoder(w).Encode(identity.LoginResponse{Token: "valid", RefreshToken: "r", User: &u})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newClient(t *testing.T, gw *fakeGateway) *auth.Client {
	t.Helper()

	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)

	c, err := gateway.New(gateway.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	return auth.NewClient(c)
}

func newScope() *session.Scoped {
	return session.New(memory.New()).Scope("scope-1")
}

func seed(t *testing.T, s *session.Scoped, token string) {
	t.Helper()

	u := testUser
	require.NoError(t, s.SetAll(session.Data{Token: token, RefreshToken: "r", User: &u}))
}

func sessionToken(token string) session.Data {
	return session.Data{Token: token}
}
