package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"testing"
)

func TestNewSeedsBuiltinRoles(t *testing.T) {
	c := New()

	roles := c.Roles()
	if len(roles) != len(builtinRoles) {
		t.Fatalf("Roles() returned %d roles, want %d", len(roles), len(builtinRoles))
	}
	if !sort.StringsAreSorted(roles) {
		t.Errorf("Roles() not sorted: %v", roles)
	}
	if !slices.Contains(roles, DefaultRole) {
		t.Errorf("builtin roles missing default role %q", DefaultRole)
	}
}

func TestLookup(t *testing.T) {
	c := New()

	tests := []struct {
		name          string
		jobRole       string
		expectedRole  string
		expectedExact bool
	}{
		{"exact match", "Frontend Developer", "Frontend Developer", true},
		{"case insensitive match", "frontend developer", "Frontend Developer", true},
		{"mixed case match", "DEVOPS engineer", "DevOps Engineer", true},
		{"unknown role falls back", "Astronaut", DefaultRole, false},
		{"empty role falls back", "", DefaultRole, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, skills, exact := c.Lookup(tt.jobRole)
			if role != tt.expectedRole {
				t.Errorf("Lookup(%q) role = %q, want %q", tt.jobRole, role, tt.expectedRole)
			}
			if exact != tt.expectedExact {
				t.Errorf("Lookup(%q) exact = %v, want %v", tt.jobRole, exact, tt.expectedExact)
			}
			if len(skills) == 0 {
				t.Errorf("Lookup(%q) returned no skills", tt.jobRole)
			}
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c := New()

	_, skills, _ := c.Lookup("Frontend Developer")
	skills[0] = "mutated"

	_, again, _ := c.Lookup("Frontend Developer")
	if again[0] == "mutated" {
		t.Error("Lookup exposed internal skill slice")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	content := `Platform Engineer:
  - Go
  - Kubernetes
  - Terraform
Full Stack Developer:
  - JavaScript
  - Node.js
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	c := New()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	role, skills, exact := c.Lookup("platform engineer")
	if !exact || role != "Platform Engineer" {
		t.Errorf("Lookup after load = (%q, %v), want exact Platform Engineer", role, exact)
	}
	if !reflect.DeepEqual(skills, []string{"Go", "Kubernetes", "Terraform"}) {
		t.Errorf("skills = %v, want [Go Kubernetes Terraform]", skills)
	}

	// Builtin roles not in the file are gone.
	if _, _, exact := c.Lookup("Data Scientist"); exact {
		t.Error("expected Data Scientist to be replaced by file contents")
	}
}

func TestLoadFileAppendsDefaultRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	content := `Platform Engineer:
  - Go
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	c := New()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	role, skills, exact := c.Lookup("Astronaut")
	if exact {
		t.Error("unknown role should not match exactly")
	}
	if role != DefaultRole {
		t.Errorf("fallback role = %q, want %q", role, DefaultRole)
	}
	if len(skills) == 0 {
		t.Error("fallback role has no skills")
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{"missing file", "", true},
		{"invalid yaml", "roles: [unclosed", false},
		{"empty document", "", false},
		{"wrong shape", "- a\n- b\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "roles.yaml")
			if !tt.missing {
				if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
					t.Fatalf("failed to write catalog file: %v", err)
				}
			}

			c := New()
			if err := c.LoadFile(path); err == nil {
				t.Error("expected error, got nil")
			}

			// Failed loads keep the previous contents.
			if _, _, exact := c.Lookup("Frontend Developer"); !exact {
				t.Error("failed load should keep builtin roles")
			}
		})
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	if err := os.WriteFile(path, []byte("SRE:\n  - Linux\n"), 0600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	c, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile failed: %v", err)
	}
	if _, _, exact := c.Lookup("SRE"); !exact {
		t.Error("expected SRE role from file")
	}

	if _, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
