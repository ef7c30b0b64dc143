package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeDisabled(t *testing.T) {
	t.Cleanup(CloseAll)

	tmpDir := t.TempDir()
	if err := Initialize(tmpDir, Settings{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// Disabled logging must not create the logs directory.
	if _, err := os.Stat(filepath.Join(tmpDir, "logs")); !os.IsNotExist(err) {
		t.Error("expected no logs directory in production mode")
	}

	// Calls must be silent no-ops.
	Workflow("this should go nowhere")
}

func TestInitializeDebugWritesFiles(t *testing.T) {
	t.Cleanup(CloseAll)

	tmpDir := t.TempDir()
	if err := Initialize(tmpDir, Settings{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Routing("routed to %s", "NUST")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tmpDir, "logs"))
	if err != nil {
		t.Fatalf("reading logs dir: %v", err)
	}

	found := false
	for _, e := range entries {
		if strings.Contains(e.Name(), "routing") {
			found = true
		}
	}
	if !found {
		t.Error("expected a routing log file")
	}
}

func TestCategoryFilter(t *testing.T) {
	t.Cleanup(CloseAll)

	tmpDir := t.TempDir()
	err := Initialize(tmpDir, Settings{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"routing": false},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if IsCategoryEnabled(CategoryRouting) {
		t.Error("routing category should be disabled")
	}
	if !IsCategoryEnabled(CategoryWorkflow) {
		t.Error("workflow category should default to enabled")
	}
}
