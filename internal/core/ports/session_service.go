package ports

import (
	"context"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// LoginResult is returned by SessionService.Login.
type LoginResult struct {
	Token    string
	Identity domain.Identity
}

// SessionService owns the Anonymous/Authenticated state machine.
// Login is the only way in; Logout is the only way out and doubles as a
// hard reset of the running application.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// SessionRegistry tracks live session IDs. Pure in-memory: a reload or
// process restart empties it, which is exactly the lifecycle the
// dashboard wants.
type SessionRegistry interface {
	Add(sessionID string, identity domain.Identity)
	Get(sessionID string) (domain.Identity, bool)
	Remove(sessionID string) bool
	Reset()
}

// ReloadRequester asks the supervisor to tear the application down and
// bootstrap it again. Used by logout and by the chain-changed watcher;
// both escalate to a full reload rather than partial recovery.
type ReloadRequester interface {
	RequestReload(reason string)
}
