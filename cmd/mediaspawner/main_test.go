package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaspawner/internal/testsupport"
)

func TestRootHelpListsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--help"}, env.configPath)
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"export", "import", "profile", "asset", "backup", "config", "status"} {
		requireContains(t, out, name)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedConfiguration(t, env.store)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Profiles: 1 (1 spawns)")
	requireContains(t, out, "Assets:   1")
	requireContains(t, out, "Active profile: none")
}

func TestExportAndImportCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedConfiguration(t, env.store)

	exportDir := t.TempDir()
	out, _, err := runCLI(t, []string{"export", "--output", exportDir}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 1 profiles, 1 spawns, and 1 assets")

	entries, err := os.ReadDir(exportDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one export file, got %v (%v)", entries, err)
	}
	exportFile := filepath.Join(exportDir, entries[0].Name())
	if !strings.HasPrefix(entries[0].Name(), "mediaspawner-config-") {
		t.Fatalf("unexpected export filename %q", entries[0].Name())
	}

	// Importing the export back collides on every id; rename keeps both.
	out, _, err = runCLI(t, []string{"import", exportFile}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Now holding 2 profiles, 2 spawns, and 2 assets")
	requireContains(t, out, "Profile conflict resolved: Stream Alerts")
}

func TestExportFailsOnEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"export", "--stdout"}, env.configPath)
	if err == nil {
		t.Fatal("export of an empty configuration must fail")
	}
	requireContains(t, err.Error(), "empty")
}

func TestProfileListAndActivate(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedConfiguration(t, env.store)

	out, _, err := runCLI(t, []string{"profile", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("profile list: %v", err)
	}
	requireContains(t, out, "Stream Alerts")

	out, _, err = runCLI(t, []string{"profile", "activate", "Stream Alerts"}, env.configPath)
	if err != nil {
		t.Fatalf("profile activate: %v", err)
	}
	requireContains(t, out, "Activated profile Stream Alerts")

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Active profile: Stream Alerts")
}

func TestProfileShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedConfiguration(t, env.store)

	out, _, err := runCLI(t, []string{"--json", "profile", "show", "p1"}, env.configPath)
	if err != nil {
		t.Fatalf("profile show: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("profile show --json emitted invalid JSON: %v\n%s", err, out)
	}
}

func TestAssetListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"asset", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("asset list: %v", err)
	}
	requireContains(t, out, "No assets configured")
}

func TestBackupStatusDefaults(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"backup", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("backup status: %v", err)
	}
	requireContains(t, out, "Backups enabled: no")
	requireContains(t, out, "Last backup: never")
}

func TestBackupNowWithoutEndpoint(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedConfiguration(t, env.store)

	_, _, err := runCLI(t, []string{"backup", "now"}, env.configPath)
	if err == nil {
		t.Fatal("backup now without an endpoint must fail")
	}
	requireContains(t, err.Error(), "authenticate")
}

func TestCheckCommandPasses(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Export directory")
	if strings.Contains(out, "FAIL") {
		t.Fatalf("unexpected failing check:\n%s", out)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	env := setupCLITestEnv(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, []string{"config", "path"}, env.configPath)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, env.configPath)
}
