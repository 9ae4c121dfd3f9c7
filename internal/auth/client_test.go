package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/authportal/internal/gateway"
	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

func TestClient_Login_InvalidCredentials(t *testing.T) {
	gw := &fakeGateway{
		login: func(identity.LoginRequest) (*identity.LoginResponse, error) {
			return nil, &gateway.GatewayError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
		},
	}
	sink := &recordingSink{}
	store := newStore()

	res := NewClient(gw, WithActivitySink(sink)).Login(context.Background(), store, "a@b.com", "wrongpw")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Error)

	_, ok := store.Token()
	assert.False(t, ok)
	_, ok = store.User()
	assert.False(t, ok)

	assert.Equal(t, []ActivityType{ActivityLoginFailure}, sink.types())
}

func TestClient_Login_ErrorFieldInSuccessBody(t *testing.T) {
	gw := &fakeGateway{
		login: func(identity.LoginRequest) (*identity.LoginResponse, error) {
			return &identity.LoginResponse{Error: "Account locked", Token: "ignored"}, nil
		},
	}
	store := newStore()

	res := NewClient(gw).Login(context.Background(), store, "a@b.com", "pw")

	assert.False(t, res.Success)
	assert.Equal(t, "Account locked", res.Error)

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestClient_Login_TransportFailureUsesFallback(t *testing.T) {
	gw := &fakeGateway{
		login: func(identity.LoginRequest) (*identity.LoginResponse, error) {
			return nil, &gateway.TransportError{Endpoint: gateway.PathLogin, Err: errors.New("dial tcp: connection refused")}
		},
	}

	res := NewClient(gw).Login(context.Background(), newStore(), "a@b.com", "pw")

	assert.False(t, res.Success)
	assert.Equal(t, MsgLoginFailed, res.Error)
}

func TestClient_Login_Success(t *testing.T) {
	user := testUser()
	gw := &fakeGateway{
		login: func(req identity.LoginRequest) (*identity.LoginResponse, error) {
			assert.Equal(t, "a@b.com", req.Email)

			return &identity.LoginResponse{
				Token:              "abc",
				RefreshToken:       "ref",
				User:               user,
				Tenant:             &identity.Tenant{ID: "t-1", Name: "acme"},
				MustChangePassword: true,
			}, nil
		},
	}
	sink := &recordingSink{}
	store := newStore()

	res := NewClient(gw, WithActivitySink(sink)).Login(context.Background(), store, "a@b.com", "pw")

	require.True(t, res.Success)
	assert.True(t, res.MustChangePassword)
	assert.Equal(t, "abc", res.Token)

	token, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	stored, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, user, stored)

	tenant, ok := store.Tenant()
	require.True(t, ok)
	assert.Equal(t, "acme", tenant.Name)

	require.Len(t, sink.events, 1)
	assert.Equal(t, ActivityLoginSuccess, sink.events[0].Type)
	assert.Equal(t, "u-1", sink.events[0].UserID)
	assert.False(t, sink.events[0].OccurredAt.IsZero())
}

func validForm() RegisterForm {
	return RegisterForm{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		PhoneNumber:     "2025550123",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestClient_Register_LocalValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *RegisterForm)
		field  string
		want   string
	}{
		{name: "first name blank", mutate: func(f *RegisterForm) { f.FirstName = "   " }, field: "firstName", want: "First name is required"},
		{name: "last name missing", mutate: func(f *RegisterForm) { f.LastName = "" }, field: "lastName", want: "Last name is required"},
		{name: "email missing", mutate: func(f *RegisterForm) { f.Email = "" }, field: "email", want: "Email is required"},
		{name: "email invalid", mutate: func(f *RegisterForm) { f.Email = "not-an-email" }, field: "email", want: "Email is invalid"},
		{name: "phone missing", mutate: func(f *RegisterForm) { f.PhoneNumber = " " }, field: "phoneNumber", want: "Phone number is required"},
		{name: "phone short", mutate: func(f *RegisterForm) { f.PhoneNumber = "12345" }, field: "phoneNumber", want: "Phone number must be at least 10 digits"},
		{name: "phone garbage", mutate: func(f *RegisterForm) { f.PhoneNumber = "abcdefghijkl" }, field: "phoneNumber", want: "Phone number is invalid"},
		{name: "password missing", mutate: func(f *RegisterForm) { f.Password = ""; f.ConfirmPassword = "" }, field: "password", want: "Password is required"},
		{name: "password short", mutate: func(f *RegisterForm) { f.Password = "short"; f.ConfirmPassword = "short" }, field: "password", want: "Password must be at least 8 characters long"},
		{name: "mismatch", mutate: func(f *RegisterForm) { f.ConfirmPassword = "different1" }, field: "confirmPassword", want: "Passwords do not match"},
		{
			name: "first violation wins",
			mutate: func(f *RegisterForm) {
				f.LastName = ""
				f.ConfirmPassword = "different1"
			},
			field: "lastName",
			want:  "Last name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			form := validForm()
			tt.mutate(&form)

			res := NewClient(gw).Register(context.Background(), form)

			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Error)
			assert.Equal(t, tt.field, res.Field)
			assert.Zero(t, gw.count("register"), "no network call on local validation failure")
		})
	}
}

func TestClient_Register(t *testing.T) {
	t.Run("success sends snake case payload", func(t *testing.T) {
		gw := &fakeGateway{
			register: func(req identity.RegisterRequest) (*identity.MessageResponse, error) {
				assert.Equal(t, identity.RegisterRequest{
					FirstName:   "Ada",
					LastName:    "Lovelace",
					Email:       "ada@example.com",
					PhoneNumber: "2025550123",
					Password:    "secret123",
				}, req)

				return &identity.MessageResponse{Message: "Check your inbox"}, nil
			},
		}
		store := newStore()

		form := validForm()
		form.FirstName = "  Ada "

		res := NewClient(gw).Register(context.Background(), form)

		require.True(t, res.Success)
		assert.Equal(t, "Check your inbox", res.Message)

		_, ok := store.Token()
		assert.False(t, ok)
	})

	t.Run("gateway rejection", func(t *testing.T) {
		gw := &fakeGateway{
			register: func(identity.RegisterRequest) (*identity.MessageResponse, error) {
				return nil, &gateway.GatewayError{Status: http.StatusConflict, Message: "Email already registered"}
			},
		}

		res := NewClient(gw).Register(context.Background(), validForm())

		assert.False(t, res.Success)
		assert.Equal(t, "Email already registered", res.Error)
		assert.Empty(t, res.Field)
	})

	t.Run("transport failure", func(t *testing.T) {
		gw := &fakeGateway{
			register: func(identity.RegisterRequest) (*identity.MessageResponse, error) {
				return nil, &gateway.TransportError{Err: context.DeadlineExceeded}
			},
		}

		res := NewClient(gw).Register(context.Background(), validForm())
		assert.Equal(t, MsgRegisterFailed, res.Error)
	})
}

func TestClient_VerifyStoredToken(t *testing.T) {
	t.Run("no token skips the network", func(t *testing.T) {
		gw := &fakeGateway{}

		res := NewClient(gw).VerifyStoredToken(context.Background(), newStore())

		assert.False(t, res.Valid)
		assert.Zero(t, gw.count("me"))
	})

	t.Run("valid token refreshes the user", func(t *testing.T) {
		fresh := testUser()
		fresh.FirstName = "Augusta"

		gw := &fakeGateway{
			me: func(token string) (*identity.User, error) {
				assert.Equal(t, "abc", token)
				return fresh, nil
			},
		}
		store := newStore()
		require.NoError(t, store.SetAll(session.Data{Token: "abc", User: testUser()}))

		res := NewClient(gw).VerifyStoredToken(context.Background(), store)

		require.True(t, res.Valid)
		assert.Equal(t, "Augusta", res.User.FirstName)

		stored, ok := store.User()
		require.True(t, ok)
		assert.Equal(t, "Augusta", stored.FirstName)

		token, _ := store.Token()
		assert.Equal(t, "abc", token)
	})

	for name, failure := range map[string]error{
		"rejected":  &gateway.GatewayError{Status: http.StatusUnauthorized, Message: "Unauthorized"},
		"transport": &gateway.TransportError{Err: errors.New("no route to host")},
	} {
		t.Run(name+" clears the store", func(t *testing.T) {
			gw := &fakeGateway{
				me: func(string) (*identity.User, error) { return nil, failure },
			}
			sink := &recordingSink{}
			store := newStore()
			require.NoError(t, store.SetAll(session.Data{
				Token:        "abc",
				RefreshToken: "ref",
				User:         testUser(),
				Tenant:       &identity.Tenant{ID: "t"},
			}))

			res := NewClient(gw, WithActivitySink(sink)).VerifyStoredToken(context.Background(), store)

			assert.False(t, res.Valid)
			assert.Nil(t, res.User)

			_, ok := store.Token()
			assert.False(t, ok)
			_, ok = store.RefreshToken()
			assert.False(t, ok)
			_, ok = store.User()
			assert.False(t, ok)
			_, ok = store.Tenant()
			assert.False(t, ok)

			require.Len(t, sink.events, 1)
			assert.Equal(t, ActivitySessionPurged, sink.events[0].Type)
			assert.Equal(t, "a@b.com", sink.events[0].Email)
		})
	}
}

func TestClient_VerifyStoredToken_AbortedKeepsStore(t *testing.T) {
	tests := []struct {
		name   string
		cancel bool
		err    error
	}{
		{
			name:   "caller context cancelled",
			cancel: true,
			err:    &gateway.TransportError{Endpoint: gateway.PathMe, Err: context.Canceled},
		},
		{
			name: "cancellation surfaced by the transport",
			err:  &gateway.TransportError{Endpoint: gateway.PathMe, Err: fmt.Errorf("Get: %w", context.Canceled)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{
				me: func(string) (*identity.User, error) { return nil, tt.err },
			}
			sink := &recordingSink{}
			store := newStore()
			require.NoError(t, store.SetAll(session.Data{Token: "abc", RefreshToken: "ref", User: testUser()}))

			ctx, cancel := context.WithCancel(context.Background())
			if tt.cancel {
				cancel()
			}
			defer cancel()

			res := NewClient(gw, WithActivitySink(sink)).VerifyStoredToken(ctx, store)

			assert.False(t, res.Valid)
			assert.Equal(t, 1, gw.count("me"))

			token, ok := store.Token()
			require.True(t, ok)
			assert.Equal(t, "abc", token)

			_, ok = store.User()
			assert.True(t, ok)
			assert.Empty(t, sink.types())
		})
	}
}

func TestClient_EmailVerification(t *testing.T) {
	gw := &fakeGateway{
		verify: func(token string) (*identity.MessageResponse, error) {
			if token == "good" {
				return &identity.MessageResponse{Message: "Email verified"}, nil
			}

			return nil, &gateway.GatewayError{Status: http.StatusBadRequest, Message: "Token expired"}
		},
		resend: func(string) (*identity.MessageResponse, error) {
			return nil, &gateway.TransportError{Err: errors.New("timeout")}
		},
	}
	c := NewClient(gw)

	res := c.VerifyEmail(context.Background(), "good")
	assert.True(t, res.OK())
	assert.Equal(t, "Email verified", res.Message)

	res = c.VerifyEmail(context.Background(), "bad")
	assert.False(t, res.OK())
	assert.Equal(t, "Token expired", res.Error)

	res = c.ResendVerification(context.Background(), "a@b.com")
	assert.Equal(t, MsgResendVerifyFailed, res.Error)
}

func TestClient_SinkFailureDoesNotFailLogin(t *testing.T) {
	gw := &fakeGateway{
		login: func(identity.LoginRequest) (*identity.LoginResponse, error) {
			return &identity.LoginResponse{Token: "abc", User: testUser()}, nil
		},
	}
	sink := ActivitySinkFunc(func(context.Context, ActivityEvent) error {
		return errors.New("journal down")
	})

	res := NewClient(gw, WithActivitySink(sink)).Login(context.Background(), newStore(), "a@b.com", "pw")
	assert.True(t, res.Success)
}
