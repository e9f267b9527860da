package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"manufacturer", RoleManufacturer, false},
		{"buyer", RoleBuyer, false},
		{"", "", true},
		{"Admin", "", true},
		{"superuser", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownRole) {
				t.Errorf("ParseRole(%q): expected ErrUnknownRole, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestPanelsFor_Admin(t *testing.T) {
	panels := PanelsFor(&Identity{Username: "admin", Role: RoleAdmin})

	want := []Panel{PanelCreate, PanelTransfer, PanelComplete, PanelFetch, PanelLocationLookup}
	if len(panels) != len(want) {
		t.Fatalf("expected %d panels, got %d", len(want), len(panels))
	}
	for i, p := range want {
		if panels[i] != p {
			t.Errorf("panel[%d]: expected %q, got %q", i, p, panels[i])
		}
	}
}

func TestPanelsFor_Manufacturer(t *testing.T) {
	panels := PanelsFor(&Identity{Username: "manufacturer", Role: RoleManufacturer})

	if len(panels) != 1 || panels[0] != PanelCreate {
		t.Errorf("manufacturer must see exactly the create panel, got %v", panels)
	}
}

func TestPanelsFor_Buyer(t *testing.T) {
	panels := PanelsFor(&Identity{Username: "buyer", Role: RoleBuyer})

	if len(panels) != 1 || panels[0] != PanelViewDetails {
		t.Errorf("buyer must see exactly the view-details panel, got %v", panels)
	}
}

func TestPanelsFor_Anonymous(t *testing.T) {
	if panels := PanelsFor(nil); panels != nil {
		t.Errorf("anonymous must see no panels, got %v", panels)
	}
}

func TestPanelsFor_ReturnsCopy(t *testing.T) {
	first := PanelsFor(&Identity{Username: "admin", Role: RoleAdmin})
	first[0] = Panel("tampered")

	second := PanelsFor(&Identity{Username: "admin", Role: RoleAdmin})
	if second[0] != PanelCreate {
		t.Error("PanelsFor must not expose the underlying table to mutation")
	}
}

func TestRoleAllowed(t *testing.T) {
	cases := []struct {
		role  Role
		panel Panel
		want  bool
	}{
		{RoleAdmin, PanelCreate, true},
		{RoleAdmin, PanelTransfer, true},
		{RoleAdmin, PanelViewDetails, false},
		{RoleManufacturer, PanelCreate, true},
		{RoleManufacturer, PanelTransfer, false},
		{RoleManufacturer, PanelFetch, false},
		{RoleBuyer, PanelViewDetails, true},
		{RoleBuyer, PanelCreate, false},
		{Role("ghost"), PanelCreate, false},
	}

	for _, tc := range cases {
		if got := tc.role.Allowed(tc.panel); got != tc.want {
			t.Errorf("%s.Allowed(%s): expected %v, got %v", tc.role, tc.panel, tc.want, got)
		}
	}
}
