package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/crypto/bcrypt"

	model "github.com/buynlarge/console/internal/model/auth"
	"github.com/buynlarge/console/internal/storage"
)

const (
	msgBadCredentials = "Credenciales incorrectas"
	msgLoginFailed    = "Error al iniciar sesión. Por favor, intenta de nuevo."
)

// ErrUnauthenticated is returned by Require when nobody is logged in.
var ErrUnauthenticated = errors.New("no authenticated user")

// Account is one entry of the demo credential table.
type Account struct {
	Email    string
	Password string
	User     model.User
}

// DemoAccounts returns the two fixed console accounts.
func DemoAccounts() []Account {
	return []Account{
		{
			Email:    "admin@buynlarge.com",
			Password: "admin123",
			User:     model.User{ID: "1", Name: "Administrador", Email: "admin@buynlarge.com", Role: model.RoleAdmin},
		},
		{
			Email:    "user@buynlarge.com",
			Password: "user123",
			User:     model.User{ID: "2", Name: "Usuario", Email: "user@buynlarge.com", Role: model.RoleUser},
		},
	}
}

type credential struct {
	hash []byte
	user model.User
}

// Credentials is an in-process table of bcrypt-hashed passwords.
type Credentials struct {
	byEmail map[string]credential
}

// NewCredentials hashes every account password.
func NewCredentials(accounts []Account) (*Credentials, error) {
	c := &Credentials{byEmail: make(map[string]credential, len(accounts))}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.Email, err)
		}
		c.byEmail[a.Email] = credential{hash: hash, user: a.User}
	}
	return c, nil
}

// Verify returns the user owning email when password matches.
func (c *Credentials) Verify(email, password string) (model.User, bool) {
	cred, ok := c.byEmail[email]
	if !ok {
		return model.User{}, false
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return model.User{}, false
	}
	return cred.user, true
}

// Gate tracks the logged-in user of one client and persists it under
// model.UserKey.
type Gate struct {
	store storage.Store
	creds *Credentials

	mu   sync.RWMutex
	user *model.User
	err  string
}

// NewGate restores any persisted user from store.
func NewGate(ctx context.Context, store storage.Store, creds *Credentials) *Gate {
	g := &Gate{store: store, creds: creds}

	var u model.User
	ok, err := storage.GetJSON(ctx, store, model.UserKey, &u)
	switch {
	case err != nil:
		log.Printf("[auth] restore user failed: %v", err)
	case ok:
		g.user = &u
	}
	return g
}

// Login checks the credentials and, on success, persists and sets the user.
// On failure the persisted user is left untouched and Err describes why.
func (g *Gate) Login(ctx context.Context, email, password string) bool {
	u, ok := g.creds.Verify(email, password)
	if !ok {
		log.Printf("[auth] failed login for %q", email)
		g.setErr(msgBadCredentials)
		return false
	}

	if err := storage.SetJSON(ctx, g.store, model.UserKey, u); err != nil {
		log.Printf("[auth] persist user failed: %v", err)
		g.setErr(msgLoginFailed)
		return false
	}

	g.mu.Lock()
	g.user = &u
	g.err = ""
	g.mu.Unlock()
	log.Printf("[auth] %s logged in as %s", u.Email, u.Role)
	return true
}

// Logout clears the user in memory and in storage.
func (g *Gate) Logout(ctx context.Context) {
	g.mu.Lock()
	g.user = nil
	g.err = ""
	g.mu.Unlock()

	if err := g.store.Delete(ctx, model.UserKey); err != nil {
		log.Printf("[auth] remove persisted user failed: %v", err)
	}
}

// CurrentUser returns the logged-in user, if any.
func (g *Gate) CurrentUser() (model.User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return model.User{}, false
	}
	return *g.user, true
}

// Err returns the message of the last failed login, or "".
func (g *Gate) Err() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}

// Require is the check every protected view performs on navigation.
func (g *Gate) Require() (model.User, error) {
	u, ok := g.CurrentUser()
	if !ok {
		return model.User{}, ErrUnauthenticated
	}
	return u, nil
}

func (g *Gate) setErr(msg string) {
	g.mu.Lock()
	g.err = msg
	g.mu.Unlock()
}

type ctxKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom extracts the user stored by WithUser.
func UserFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(model.User)
	return u, ok
}
