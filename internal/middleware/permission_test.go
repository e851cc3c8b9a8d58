package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoutePermission(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		module     string
		permission string
		ok         bool
	}{
		{"create", "/quotations/create", "quotations", "create", true},
		{"get by id with param", "/quotations/getById/123", "quotations", "getById", true},
		{"delete with param", "/invoices/delete/abc", "invoices", "delete", true},
		{"trailing slash", "/invoices/getAll/", "invoices", "getAll", true},
		{"single segment", "/quotations", "", "", false},
		{"root", "/", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, permission, ok := ParseRoutePermission(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.module, module)
			assert.Equal(t, tt.permission, permission)
		})
	}
}

func TestIsExcludedRoute(t *testing.T) {
	assert.True(t, IsExcludedRoute("/auth/login"))
	assert.True(t, IsExcludedRoute("/health"))
	assert.True(t, IsExcludedRoute("/api/docs/index.html"))
	assert.False(t, IsExcludedRoute("/quotations/create"))
	assert.False(t, IsExcludedRoute("/roles/getAll"))
	// only the first segment counts
	assert.False(t, IsExcludedRoute("/quotations/auth"))
}
