package auth

import (
	"context"
	"sync"

	"github.com/gofiber/storage/memory/v2"

	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
	"github.com/GoPowerDNS-Admin/authportal/internal/web/session"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	login    func(identity.LoginRequest) (*identity.LoginResponse, error)
	register func(identity.RegisterRequest) (*identity.MessageResponse, error)
	me       func(token string) (*identity.User, error)
	verify   func(token string) (*identity.MessageResponse, error)
	resend   func(email string) (*identity.MessageResponse, error)
}

func (f *fakeGateway) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.calls == nil {
		f.calls = map[string]int{}
	}

	f.calls[name]++
}

func (f *fakeGateway) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[name]
}

func (f *fakeGateway) Login(_ context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	f.hit("login")
	return f.login(req)
}

func (f *fakeGateway) Register(_ context.Context, req identity.RegisterRequest) (*identity.MessageResponse, error) {
	f.hit("register")
	return f.register(req)
}

func (f *fakeGateway) Me(_ context.Context, token string) (*identity.User, error) {
	f.hit("me")
	return f.me(token)
}

func (f *fakeGateway) VerifyEmail(_ context.Context, token string) (*identity.MessageResponse, error) {
	f.hit("verify")
	return f.verify(token)
}

func (f *fakeGateway) ResendVerification(_ context.Context, email string) (*identity.MessageResponse, error) {
	f.hit("resend")
	return f.resend(email)
}

type recordingSink struct {
	mu     sync.Mutex
	events []ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, ev ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)

	return nil
}

func (s *recordingSink) types() []ActivityType {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ActivityType, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}

	return out
}

func newStore() *session.Scoped {
	return session.New(memory.New()).Scope("scope-1")
}

func testUser() *identity.User {
	return &identity.User{ID: "u-1", FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com", Status: identity.StatusActive}
}
