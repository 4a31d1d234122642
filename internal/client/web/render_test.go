package web

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/ums/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_PagesInsideLayout(t *testing.T) {
	r, err := newRenderer()
	require.NoError(t, err)

	assert.True(t, r.has("students"))
	assert.True(t, r.has("loading"))
	assert.False(t, r.has("layout"))
	assert.False(t, r.has("missing"))

	var buf bytes.Buffer
	p := page{Title: "Error", Error: "Boom", User: &models.User{FirstName: "Ada", Roles: models.Roles{models.RoleAdmin}}}
	require.NoError(t, r.engine.Render(&buf, "error", p, layoutName))

	out := buf.String()
	assert.Contains(t, out, "<title>Error - University Management</title>")
	assert.Contains(t, out, `<a href="/employees">Employees</a>`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Boom")), out)
}
