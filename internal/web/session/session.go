// Package session persists the token, refresh token, user and tenant of a
// browser scope in a fiber.Storage backend. Each browser is identified by
// the sid cookie issued by ScopeMiddleware.
package session

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/authportal/internal/identity"
)

// Storage keys, one entry per field.
const (
	KeyToken        = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "auth_user"
	KeyTenant       = "auth_tenant"

	// DefaultPrefix namespaces all keys written by the store.
	DefaultPrefix = "authportal:"
)

var allKeys = [...]string{KeyToken, KeyRefreshToken, KeyUser, KeyTenant}

// Data is a (possibly partial) session. Empty or nil fields are left
// untouched by SetAll.
type Data struct {
	Token        string
	RefreshToken string
	User         *identity.User
	Tenant       *identity.Tenant
}

// Store is the session store shared by all browser scopes.
type Store struct {
	storage fiber.Storage
	prefix  string
	mu      sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a store on top of storage. A nil storage yields a store
// without persistence: getters report absent and writers do nothing.
func New(storage fiber.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		prefix:  DefaultPrefix,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scope returns the view of the store for one browser scope.
func (s *Store) Scope(id string) *Scoped {
	return &Scoped{store: s, id: id}
}

// Scoped is the session of a single browser scope.
type Scoped struct {
	store *Store
	id    string
}

// ID returns the browser scope identifier.
func (s *Scoped) ID() string {
	if s == nil {
		return ""
	}

	return s.id
}

func (s *Scoped) usable() bool {
	return s != nil && s.id != "" && s.store != nil && s.store.storage != nil
}

func (s *Scoped) key(name string) string {
	return s.store.prefix + s.id + ":" + name
}

// get must be called with the read lock held.
func (s *Scoped) get(name string) []byte {
	raw, err := s.store.storage.Get(s.key(name))
	if err != nil {
		log.Debug().Err(err).Str("scope", s.id).Str("key", name).Msg("session storage read failed")
		return nil
	}

	return raw
}

func (s *Scoped) getString(name string) (string, bool) {
	if !s.usable() {
		return "", false
	}

	s.store.mu.RLock()
	raw := s.get(name)
	s.store.mu.RUnlock()

	if len(raw) == 0 {
		return "", false
	}

	return string(raw), true
}

func getJSON[T any](s *Scoped, name string) (*T, bool) {
	if !s.usable() {
		return nil, false
	}

	s.store.mu.RLock()
	raw := s.get(name)
	s.store.mu.RUnlock()

	if len(raw) == 0 {
		return nil, false
	}

	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		log.Debug().Err(err).Str("scope", s.id).Str("key", name).Msg("stored session record is corrupt")
		return nil, false
	}

	return v, true
}

// Token returns the stored access token.
func (s *Scoped) Token() (string, bool) {
	return s.getString(KeyToken)
}

// RefreshToken returns the stored refresh token.
func (s *Scoped) RefreshToken() (string, bool) {
	return s.getString(KeyRefreshToken)
}

// User returns the stored user record.
func (s *Scoped) User() (*identity.User, bool) {
	return getJSON[identity.User](s, KeyUser)
}

// Tenant returns the stored tenant record.
func (s *Scoped) Tenant() (*identity.Tenant, bool) {
	return getJSON[identity.Tenant](s, KeyTenant)
}

// SetAll stores every present field of d. Records are encoded before the
// first write, and the write lock is held for all of them, so readers never
// see a half-applied session. When a write fails the fields already written
// are put back to their previous values.
func (s *Scoped) SetAll(d Data) error {
	if !s.usable() {
		return nil
	}

	writes := make(map[string][]byte, len(allKeys))

	if d.Token != "" {
		writes[KeyToken] = []byte(d.Token)
	}

	if d.RefreshToken != "" {
		writes[KeyRefreshToken] = []byte(d.RefreshToken)
	}

	if d.User != nil {
		raw, err := json.Marshal(d.User)
		if err != nil {
			return err
		}

		writes[KeyUser] = raw
	}

	if d.Tenant != nil {
		raw, err := json.Marshal(d.Tenant)
		if err != nil {
			return err
		}

		writes[KeyTenant] = raw
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	previous := make(map[string][]byte, len(writes))

	for name := range writes {
		raw, err := s.store.storage.Get(s.key(name))
		if err != nil {
			log.Debug().Err(err).Str("scope", s.id).Str("key", name).Msg("session storage read failed")
		}

		previous[name] = raw
	}

	written := make([]string, 0, len(writes))

	for _, name := range allKeys {
		raw, ok := writes[name]
		if !ok {
			continue
		}

		written = append(written, name)

		if err := s.store.storage.Set(s.key(name), raw, 0); err != nil {
			s.restore(written, previous)
			return err
		}
	}

	return nil
}

// restore puts back the values held before a failed SetAll. The caller
// holds the write lock.
func (s *Scoped) restore(names []string, previous map[string][]byte) {
	for _, name := range names {
		var err error
		if raw := previous[name]; raw != nil {
			err = s.store.storage.Set(s.key(name), raw, 0)
		} else {
			err = s.store.storage.Delete(s.key(name))
		}

		if err != nil {
			log.Warn().Err(err).Str("scope", s.id).Str("key", name).Msg("session storage rollback failed")
		}
	}
}

// SetUser replaces the stored user record.
func (s *Scoped) SetUser(u *identity.User) error {
	return s.SetAll(Data{User: u})
}

// Clear removes all four entries. Missing entries and storage errors are
// ignored.
func (s *Scoped) Clear() {
	if !s.usable() {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, name := range allKeys {
		if err := s.store.storage.Delete(s.key(name)); err != nil {
			log.Debug().Err(err).Str("scope", s.id).Str("key", name).Msg("session storage delete failed")
		}
	}
}
