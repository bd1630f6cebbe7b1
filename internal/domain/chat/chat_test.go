package chat

import "testing"

func TestTurn_Validate(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAssistant} {
		if err := (Turn{Role: r, Content: "x"}).Validate(); err != nil {
			t.Errorf("role %q: unexpected error %v", r, err)
		}
	}
	for _, r := range []Role{RoleSystem, RoleTool, "admin", ""} {
		if err := (Turn{Role: r, Content: "x"}).Validate(); err == nil {
			t.Errorf("role %q: expected error", r)
		}
	}
}
