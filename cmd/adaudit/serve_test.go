package main

import (
	"testing"

	"github.com/adaudit/adaudit/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has addr flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("addr")
		if flag == nil {
			t.Fatal("expected addr flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultServerAddr {
			t.Errorf("expected default %q, got %q", config.DefaultServerAddr, flag.DefValue)
		}
	})

	t.Run("has profile flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("profile") == nil {
			t.Fatal("expected profile flag")
		}
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{"extra"}); err == nil {
			t.Error("expected error for positional arguments")
		}
	})
}
