package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}

	t.Setenv("FINPAL_TEST_DIR", "/var/data")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty path", path: "", want: ""},
		{name: "absolute path unchanged", path: "/tmp/finpal.db", want: "/tmp/finpal.db"},
		{name: "tilde alone", path: "~", want: home},
		{name: "tilde prefix", path: "~/data/finpal.db", want: filepath.Join(home, "data", "finpal.db")},
		{name: "environment variable", path: "$FINPAL_TEST_DIR/finpal.db", want: "/var/data/finpal.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
