package guard

import (
	"testing"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	student := &models.User{ID: "u1", Roles: models.Roles{models.RoleStudent}}
	staff := []models.Role{models.RoleAdmin, models.RoleEmployee}

	tests := []struct {
		name    string
		state   State
		allowed []models.Role
		want    Decision
	}{
		{name: "initializing wins", state: State{Initializing: true, User: student}, allowed: staff, want: Loading},
		{name: "no session, no restriction", state: State{}, want: RedirectLogin},
		{name: "no session, restricted", state: State{}, allowed: staff, want: RedirectLogin},
		{name: "session, no restriction", state: State{User: student}, want: Render},
		{name: "session, role missing", state: State{User: student}, allowed: staff, want: RedirectUnauthorized},
		{name: "session, role present", state: State{User: student}, allowed: []models.Role{models.RoleStudent}, want: Render},
		{
			name:    "multi-role user",
			state:   State{User: &models.User{Roles: models.Roles{models.RoleStudent, models.RoleEmployee}}},
			allowed: []models.Role{models.RoleEmployee},
			want:    Render,
		},
		{name: "session without roles, restricted", state: State{User: &models.User{ID: "u2"}}, allowed: staff, want: RedirectUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.state, tt.allowed))
		})
	}
}

func TestDecisionTarget(t *testing.T) {
	assert.Equal(t, LoginPath, RedirectLogin.Target())
	assert.Equal(t, UnauthorizedPath, RedirectUnauthorized.Target())
	assert.Empty(t, Render.Target())
	assert.Empty(t, Loading.Target())
	assert.Equal(t, "redirect_login", RedirectLogin.String())
}
