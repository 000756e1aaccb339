package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"campus-rental-client/internal/client"
	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/repository"
	"campus-rental-client/internal/security"
	"campus-rental-client/internal/storage"
	"campus-rental-client/internal/utils"
)

const (
	tokenKey = "session.token"
	userKey  = "session.user"
)

var ErrNotLoggedIn = errors.New("please log in first")

// Provider is the capability the rest of the client sees.
type Provider interface {
	Token() string
	User() *domain.User
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
}

// Manager owns the credential and cached profile. Its lifecycle is
// Hydrate at startup, Login/Logout on demand.
type Manager struct {
	mu    sync.RWMutex
	store storage.KeyValueStore
	vault *security.Vault
	clock utils.Clock
	users repository.UserRepository

	token string
	user  *domain.User
}

func NewManager(store storage.KeyValueStore, vault *security.Vault, clock utils.Clock) *Manager {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Manager{store: store, vault: vault, clock: clock}
}

// SetUserRepository wires the backend user endpoints. The HTTP client
// needs the Manager as its TokenSource first, hence the two steps.
func (m *Manager) SetUserRepository(users repository.UserRepository) {
	m.users = users
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the cached profile, or nil when logged out.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	u.Wishlist = append([]string(nil), m.user.Wishlist...)
	return &u
}

func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// RequireUser returns the cached profile or ErrNotLoggedIn.
func (m *Manager) RequireUser() (*domain.User, error) {
	if !m.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	if u := m.User(); u != nil {
		return u, nil
	}
	return &domain.User{}, nil
}

// Hydrate restores a previous session from storage. Credentials that are
// expired, unreadable or sealed under another passphrase are discarded.
func (m *Manager) Hydrate(ctx context.Context) error {
	logger.EnterMethod("session.Hydrate")

	sealed, err := m.store.Get(ctx, tokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		logger.ExitMethod("session.Hydrate", "authenticated", false)
		return nil
	}
	if err != nil {
		logger.ExitMethodWithError("session.Hydrate", err)
		return fmt.Errorf("load session: %w", err)
	}

	token, err := m.vault.Open(sealed)
	if err != nil {
		logger.Warn("Discarding stored credential", "reason", err)
		return m.clear(ctx)
	}
	if _, err := security.CheckToken(token, m.clock.Now()); err != nil {
		logger.Warn("Discarding stored credential", "reason", err)
		return m.clear(ctx)
	}

	var user *domain.User
	if raw, err := m.store.Get(ctx, userKey); err == nil {
		if plain, err := m.vault.Open(raw); err == nil {
			var u domain.User
			if json.Unmarshal([]byte(plain), &u) == nil {
				user = &u
			}
		}
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()

	logger.ExitMethod("session.Hydrate", "authenticated", true, "profile_cached", user != nil)
	return nil
}

// Login obtains a credential, then the full profile, then persists both.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := domain.Validate(creds); err != nil {
		return nil, err
	}

	result, err := m.users.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, result)
}

// Register creates an account and, when the backend returns a credential,
// starts a session the same way Login does.
func (m *Manager) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if err := domain.Validate(reg); err != nil {
		return nil, err
	}

	result, err := m.users.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if result.Token == "" {
		return result.User, nil
	}
	return m.establish(ctx, result)
}

func (m *Manager) establish(ctx context.Context, result *domain.AuthResult) (*domain.User, error) {
	if result == nil || result.Token == "" {
		return nil, errors.New("login response carried no credential")
	}

	m.mu.Lock()
	m.token = result.Token
	m.user = nil
	m.mu.Unlock()

	user, err := m.users.Me(ctx)
	if err != nil {
		if result.User == nil {
			m.mu.Lock()
			m.token = ""
			m.mu.Unlock()
			return nil, fmt.Errorf("fetch profile: %w", err)
		}
		logger.Warn("Profile fetch failed, using login payload", "error", err)
		user = result.User
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if err := m.persist(ctx); err != nil {
		return nil, err
	}
	logger.Info("Logged in", "user_id", user.ID)
	return m.User(), nil
}

// RefreshProfile re-fetches the profile. A 401 ends the session.
func (m *Manager) RefreshProfile(ctx context.Context) (*domain.User, error) {
	if !m.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	user, err := m.users.Me(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		if clearErr := m.clear(ctx); clearErr != nil {
			return nil, clearErr
		}
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return m.User(), m.persist(ctx)
}

// UpdateProfile sends editable fields and caches the result.
func (m *Manager) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if !m.Authenticated() {
		return nil, ErrNotLoggedIn
	}
	if err := domain.Validate(update); err != nil {
		return nil, err
	}
	user, err := m.users.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return m.User(), m.persist(ctx)
}

// SetWishlisted mirrors a wishlist toggle into the cached profile.
func (m *Manager) SetWishlisted(ctx context.Context, itemID string, wishlisted bool) error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return nil
	}
	list := make([]string, 0, len(m.user.Wishlist)+1)
	for _, id := range m.user.Wishlist {
		if id != itemID {
			list = append(list, id)
		}
	}
	if wishlisted {
		list = append(list, itemID)
	}
	m.user.Wishlist = list
	m.mu.Unlock()

	return m.persist(ctx)
}

// Logout clears memory and storage. It never calls the backend.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.clear(ctx); err != nil {
		return err
	}
	logger.Info("Logged out")
	return nil
}

func (m *Manager) clear(ctx context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := m.store.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (m *Manager) persist(ctx context.Context) error {
	m.mu.RLock()
	token, user := m.token, m.user
	m.mu.RUnlock()

	sealedToken, err := m.vault.Seal(token)
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}
	if err := m.store.Set(ctx, tokenKey, sealedToken); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if user == nil {
		return m.store.Delete(ctx, userKey)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	sealedUser, err := m.vault.Seal(string(raw))
	if err != nil {
		return fmt.Errorf("seal profile: %w", err)
	}
	if err := m.store.Set(ctx, userKey, sealedUser); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
