package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func roleContext(roles []string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	if roles != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserRolesKey, roles))
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		held    []string
		wanted  []string
		allowed bool
	}{
		{"exact role", []string{"clinician"}, []string{"clinician"}, true},
		{"one of several", []string{"researcher"}, []string{"clinician", "researcher"}, true},
		{"admin passes everything", []string{"admin"}, []string{"clinician"}, true},
		{"missing role", []string{"viewer"}, []string{"clinician", "researcher"}, false},
		{"no identity at all", nil, []string{"clinician"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireRole(tc.wanted...)(noopHandler)(roleContext(tc.held))
			if tc.allowed {
				if err != nil {
					t.Fatalf("expected access, got %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", he.Code)
			}
		})
	}
}

func TestRequireRole_ErrorNamesMissingRoles(t *testing.T) {
	err := RequireRole("clinician", "researcher")(noopHandler)(roleContext([]string{"viewer"}))
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	msg := fmt.Sprint(he.Message)
	if !strings.Contains(msg, "clinician") || !strings.Contains(msg, "researcher") {
		t.Errorf("message %q should name the accepted roles", msg)
	}
}

func TestIdentityAccessors(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "clin-9")
	ctx = context.WithValue(ctx, UserRolesKey, []string{"clinician"})

	if got := UserIDFromContext(ctx); got != "clin-9" {
		t.Errorf("UserIDFromContext = %q, want clin-9", got)
	}
	if got := RolesFromContext(ctx); len(got) != 1 || got[0] != "clinician" {
		t.Errorf("RolesFromContext = %v, want [clinician]", got)
	}

	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("UserIDFromContext on empty context = %q, want empty", got)
	}
	if got := RolesFromContext(context.Background()); got != nil {
		t.Errorf("RolesFromContext on empty context = %v, want nil", got)
	}
}
