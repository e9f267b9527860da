package domain

import "errors"

// Role is the closed set of dashboard roles. Anything outside the three
// named roles is treated as anonymous.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManufacturer Role = "manufacturer"
	RoleBuyer        Role = "buyer"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrSessionNotFound = errors.New("session not found")
var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a string onto the closed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManufacturer, RoleBuyer:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Identity is the authenticated actor. Created on successful login,
// destroyed on logout or reload; never persisted.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Panel identifies one dashboard operation panel.
type Panel string

const (
	PanelCreate         Panel = "create"
	PanelTransfer       Panel = "transfer"
	PanelComplete       Panel = "complete"
	PanelFetch          Panel = "fetch"
	PanelLocationLookup Panel = "location-lookup"
	PanelViewDetails    Panel = "view-details"
)

// panelsByRole is the single source of truth for which panels each role
// may see. The buyer entry is a placeholder action with no remote-call
// semantics behind it.
var panelsByRole = map[Role][]Panel{
	RoleAdmin:        {PanelCreate, PanelTransfer, PanelComplete, PanelFetch, PanelLocationLookup},
	RoleManufacturer: {PanelCreate},
	RoleBuyer:        {PanelViewDetails},
}

// PanelsFor returns the panels visible to the given identity. A nil
// identity (anonymous) sees none. Pure function, no side effects.
func PanelsFor(identity *Identity) []Panel {
	if identity == nil {
		return nil
	}
	panels := panelsByRole[identity.Role]
	out := make([]Panel, len(panels))
	copy(out, panels)
	return out
}

// Allowed reports whether the role may use the given panel.
func (r Role) Allowed(p Panel) bool {
	for _, candidate := range panelsByRole[r] {
		if candidate == p {
			return true
		}
	}
	return false
}
