package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, "version=") || !strings.Contains(s, "commit=") {
		t.Fatalf("unexpected build info format: %s", s)
	}
	if Short() == "" {
		t.Fatal("expected non-empty version")
	}
}
