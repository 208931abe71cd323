package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"go-storefront/client"
	"go-storefront/models"
	"go-storefront/store"
)

// UserKey is the storage key the signed-in user is persisted under
const UserKey = "authUser"

// AuthAPI is the remote authentication service
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (models.AuthPayload, error)
	Register(ctx context.Context, reg models.Registration) (models.AuthPayload, error)
}

// Listener is called after every sign-in and sign-out
type Listener func(ctx context.Context, ev store.SessionEvent)

// Auth holds the current user of one session
type Auth struct {
	api    AuthAPI
	tokens client.TokenStore
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	user      *models.User
	listeners []Listener
}

// NewAuth creates a signed-out session
func NewAuth(api AuthAPI, tokens client.TokenStore, logger *zap.Logger) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auth{api: api, tokens: tokens, logger: logger, now: time.Now}
}

// Subscribe registers l for session transitions
func (a *Auth) Subscribe(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, l)
}

// Login signs the session in
func (a *Auth) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return models.User{}, fmt.Errorf("login: %w: email and password are required", store.ErrValidation)
	}
	payload, err := a.api.Login(ctx, creds)
	if err != nil {
		a.logger.Warn("login failed", zap.String("email", creds.Email), zap.Error(err))
		return models.User{}, fmt.Errorf("login: %w: %v", store.ErrRemote, err)
	}
	return a.establish(ctx, "login", payload)
}

// Register creates an account and signs in when the service returns a token
func (a *Auth) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return models.User{}, fmt.Errorf("register: %w: name, email and password are required", store.ErrValidation)
	}
	payload, err := a.api.Register(ctx, reg)
	if err != nil {
		a.logger.Warn("register failed", zap.String("email", reg.Email), zap.Error(err))
		return models.User{}, fmt.Errorf("register: %w: %v", store.ErrRemote, err)
	}
	if payload.Token == "" {
		return payload.User, nil
	}
	return a.establish(ctx, "register", payload)
}

func (a *Auth) establish(ctx context.Context, op string, payload models.AuthPayload) (models.User, error) {
	if payload.Token == "" || payload.User.ID == "" {
		return models.User{}, fmt.Errorf("%s: %w: response carried no session", op, store.ErrRemote)
	}
	userJSON, err := json.Marshal(payload.User)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: encode user: %w", op, err)
	}
	if err := a.tokens.Set(ctx, client.TokenKey, payload.Token); err != nil {
		return models.User{}, fmt.Errorf("%s: persist token: %w", op, err)
	}
	if err := a.tokens.Set(ctx, UserKey, string(userJSON)); err != nil {
		return models.User{}, fmt.Errorf("%s: persist user: %w", op, err)
	}

	user := payload.User
	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()

	a.logger.Info("signed in", zap.String("user_id", user.ID))
	a.emit(ctx, store.SessionEvent{Authenticated: true, UserID: user.ID})
	return user, nil
}

// Logout ends the authenticated session. Persisted credentials are removed
// on a best-effort basis; local state is always cleared.
func (a *Auth) Logout(ctx context.Context) error {
	var errs []error
	for _, key := range []string{client.TokenKey, UserKey} {
		if err := a.tokens.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}

	a.mu.Lock()
	wasSignedIn := a.user != nil
	a.user = nil
	a.mu.Unlock()

	if wasSignedIn {
		a.logger.Info("signed out")
	}
	a.emit(ctx, store.SessionEvent{})
	return errors.Join(errs...)
}

// Restore signs the session back in from persisted storage. It reports
// false when nothing usable is stored or the token has expired.
func (a *Auth) Restore(ctx context.Context) (bool, error) {
	token, ok, err := a.tokens.Get(ctx, client.TokenKey)
	if err != nil || !ok || token == "" {
		return false, err
	}
	if tokenExpired(token, a.now()) {
		a.logger.Info("persisted token expired")
		return false, a.Logout(ctx)
	}
	raw, ok, err := a.tokens.Get(ctx, UserKey)
	if err != nil || !ok {
		return false, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return false, fmt.Errorf("restore: decode persisted user: %w", err)
	}
	if user.ID == "" {
		return false, errors.New("restore: persisted user has no id")
	}

	a.mu.Lock()
	a.user = &user
	a.mu.Unlock()

	a.emit(ctx, store.SessionEvent{Authenticated: true, UserID: user.ID})
	return true, nil
}

// UserID implements store.SessionProvider
func (a *Auth) UserID() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return "", false
	}
	return a.user.ID, true
}

func (a *Auth) User() (models.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return models.User{}, false
	}
	return *a.user, true
}

func (a *Auth) Authenticated() bool {
	_, ok := a.UserID()
	return ok
}

func (a *Auth) emit(ctx context.Context, ev store.SessionEvent) {
	a.mu.RLock()
	listeners := append([]Listener(nil), a.listeners...)
	a.mu.RUnlock()
	for _, l := range listeners {
		l(ctx, ev)
	}
}

// tokenExpired reads the exp claim without verifying the signature; the
// signing key belongs to the remote service. Opaque tokens never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}
