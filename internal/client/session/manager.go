// Package session owns the signed-in state of one client: the user record and
// its bearer token, kept in memory and mirrored to a sessions.Repository.
//
// A Manager is the only writer of its session. Every mutation goes to storage
// first and to memory second, so the two copies agree after each call:
//   - Login/Register: authenticate and persist user + token.
//   - Logout/Expire: drop both copies; never fails.
//   - RefreshUser: re-read the caller's own profile; best-effort.
//   - HasRole/Current: read-only views of memory.
//
// Storage is read only once, by Hydrate. After that memory is authoritative.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/ums/internal/client/api"
	"github.com/dmitrijs2005/ums/internal/client/apiclient"
	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/dmitrijs2005/ums/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/ums/internal/logging"
)

type Manager struct {
	namespace string
	store     sessions.Repository
	logger    logging.Logger
	api       *api.API

	mu       sync.Mutex
	user     *models.User
	hydrated bool
	// generation moves on every login, logout and expiry. A refresh that
	// started under an older generation must not write its result.
	generation uint64
}

// NewManager builds a Manager whose backend calls authenticate as itself.
func NewManager(namespace string, store sessions.Repository, client *apiclient.Client, logger logging.Logger) *Manager {
	m := &Manager{
		namespace: namespace,
		store:     store,
		logger:    logger.With("sid", namespace),
	}
	m.api = api.New(client.Bind(m))
	return m
}

// API returns the façade bound to this session.
func (m *Manager) API() *api.API {
	return m.api
}

func (m *Manager) Namespace() string {
	return m.namespace
}

// Hydrate restores the session from storage on first use. The session is
// restored only when both the user record and the token are stored. On error
// the Manager stays unhydrated and the next call tries again.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hydrated {
		return nil
	}

	token, err := m.store.Get(ctx, m.namespace, sessions.KeyToken)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	raw, err := m.store.Get(ctx, m.namespace, sessions.KeyUser)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}

	m.hydrated = true
	if len(token) == 0 || len(raw) == 0 {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		m.logger.Warn(ctx, "stored user record unreadable, starting signed out", "error", err)
		return nil
	}
	u.Token = string(token)
	m.user = &u
	return nil
}

// Hydrated reports whether storage has been read.
func (m *Manager) Hydrated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hydrated
}

// Login authenticates and persists the returned user and token. A response
// without a token fails with apiclient.ErrInvalidResponse and leaves the
// current state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := m.api.Auth.Login(ctx, models.LoginForm{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, u)
}

// Register creates an account and signs in as it.
func (m *Manager) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	u, err := m.api.Auth.Register(ctx, models.RegisterForm{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, u)
}

func (m *Manager) establish(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil || u.Token == "" {
		return nil, apiclient.ErrInvalidResponse
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.persist(ctx, u); err != nil {
		return nil, err
	}
	m.user = u.Clone()
	m.hydrated = true
	m.generation++
	m.logger.Info(ctx, "signed in", "user_id", u.ID, "roles", u.Roles.String())
	return u.Clone(), nil
}

// Logout clears storage and memory. A storage failure is logged, memory is
// cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx, "signed out")
}

// Expire is called by the HTTP adapter when the backend answers 401.
func (m *Manager) Expire(ctx context.Context) {
	m.clear(ctx, "session expired by backend")
}

func (m *Manager) clear(ctx context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(ctx, m.namespace); err != nil {
		m.logger.Error(ctx, "failed to clear stored session", "error", err)
	}
	m.user = nil
	m.hydrated = true
	m.generation++
	m.logger.Info(ctx, reason)
}

// RefreshUser re-fetches the caller's own profile: the student endpoint for
// students, the employee endpoint for employees, the generic one otherwise.
// The result is merged into the session keeping the token. Failures are logged
// and swallowed; a refresh never signs the user out by itself.
func (m *Manager) RefreshUser(ctx context.Context) {
	m.mu.Lock()
	current := m.user.Clone()
	gen := m.generation
	m.mu.Unlock()

	if current == nil {
		return
	}

	profile, err := m.fetchProfile(ctx, current)
	if err != nil {
		m.logger.Warn(ctx, "failed to refresh user", "error", err)
		return
	}
	if profile == nil || profile.ID == "" {
		m.logger.Warn(ctx, "invalid profile response")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation || m.user == nil {
		m.logger.Debug(ctx, "discarding stale profile refresh")
		return
	}
	merged := m.user.Merge(profile)
	if err := m.persist(ctx, merged); err != nil {
		m.logger.Warn(ctx, "failed to store refreshed user", "error", err)
		return
	}
	m.user = merged
}

func (m *Manager) fetchProfile(ctx context.Context, u *models.User) (*models.User, error) {
	switch {
	case u.HasRole(models.RoleStudent):
		s, err := m.api.Students.Me(ctx)
		if err != nil {
			return nil, err
		}
		return api.ProfileFromStudent(*s), nil
	case u.HasRole(models.RoleEmployee):
		e, err := m.api.Employees.Me(ctx)
		if err != nil {
			return nil, err
		}
		return api.ProfileFromEmployee(*e), nil
	default:
		return m.api.Auth.Me(ctx)
	}
}

// persist must be called with mu held.
func (m *Manager) persist(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return m.store.SetAll(ctx, m.namespace, map[string][]byte{
		sessions.KeyToken: []byte(u.Token),
		sessions.KeyUser:  raw,
	})
}

// Token is read by the HTTP adapter before each request.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return ""
	}
	return m.user.Token
}

// Current returns a copy of the signed-in user, or nil.
func (m *Manager) Current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Clone()
}

func (m *Manager) HasRole(role models.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.HasRole(role)
}
