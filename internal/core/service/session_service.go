package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

type credential struct {
	password string
	role     domain.Role
}

// credentials is the fixed demo credential table: three entries, immutable
// for the process lifetime, a stand-in for a real identity provider.
// Passwords are compared exactly, no hashing.
var credentials = map[string]credential{
	"admin":        {password: "admin", role: domain.RoleAdmin},
	"manufacturer": {password: "manufacturer", role: domain.RoleManufacturer},
	"buyer":        {password: "buyer", role: domain.RoleBuyer},
}

// SessionService implements login and logout against the fixed credential
// table. Sessions live only in the registry; logout escalates to a full
// application reload.
type SessionService struct {
	registry  ports.SessionRegistry
	reloader  ports.ReloadRequester
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewSessionService(registry ports.SessionRegistry, reloader ports.ReloadRequester, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		registry:  registry,
		reloader:  reloader,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *SessionService) Login(_ context.Context, username, password string) (*ports.LoginResult, error) {
	cred, ok := credentials[username]
	if !ok || cred.password != password {
		return nil, domain.ErrInvalidCredentials
	}

	identity := domain.Identity{Username: username, Role: cred.role}
	sessionID := uuid.NewString()
	s.registry.Add(sessionID, identity)

	token, err := s.generateToken(sessionID, identity)
	if err != nil {
		s.registry.Remove(sessionID)
		return nil, err
	}

	s.log.Info().Str("username", username).Str("role", string(cred.role)).Msg("login")

	return &ports.LoginResult{Token: token, Identity: identity}, nil
}

// Logout revokes the session and requests a full reload. The reload is a
// deliberate hard reset: the wallet session and every registered session
// die with the current application generation, making a post-logout
// process observably equivalent to a fresh start.
func (s *SessionService) Logout(_ context.Context, sessionID string) error {
	if !s.registry.Remove(sessionID) {
		return domain.ErrSessionNotFound
	}

	s.log.Info().Str("session_id", sessionID).Msg("logout, requesting reload")
	s.reloader.RequestReload("logout")
	return nil
}

func (s *SessionService) generateToken(sessionID string, identity domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"username": identity.Username,
		"role":     string(identity.Role),
		"sid":      sessionID,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
