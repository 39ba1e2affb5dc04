package export_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"mediaspawner/internal/export"
	"mediaspawner/internal/logging"
	"mediaspawner/internal/services"
	"mediaspawner/internal/spawn"
	"mediaspawner/internal/testsupport"
	"mediaspawner/internal/wire"
)

func TestExportEmptyStoreFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine := export.NewEngine(st, logging.NewNop())

	result, err := engine.Export(context.Background())
	if err == nil {
		t.Fatal("expected empty dataset error")
	}
	if !errors.Is(err, services.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if result != nil {
		t.Fatal("no serialized text may be produced on failure")
	}
}

func TestExportProducesWireFormat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedConfiguration(t, st)
	engine := export.NewEngine(st, logging.NewNop())

	result, err := engine.Export(context.Background())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var parsed wire.Config
	if err := json.Unmarshal([]byte(result.Data), &parsed); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if parsed.Version != wire.CurrentVersion {
		t.Fatalf("unexpected version %q", parsed.Version)
	}
	if len(parsed.Profiles) != 1 || len(parsed.Assets) != 1 {
		t.Fatalf("unexpected counts: %d profiles, %d assets", len(parsed.Profiles), len(parsed.Assets))
	}
	if parsed.Profiles[0].Spawns[0].Assets[0].AssetID != "a1" {
		t.Fatalf("spawn asset reference mangled: %q", parsed.Profiles[0].Spawns[0].Assets[0].AssetID)
	}
	if parsed.Assets[0].ID != "a1" {
		t.Fatalf("asset id mangled: %q", parsed.Assets[0].ID)
	}

	if !strings.Contains(result.Data, "\n  ") {
		t.Fatal("expected indented output")
	}

	meta := result.Metadata
	if meta.ProfileCount != 1 || meta.AssetCount != 1 || meta.SpawnCount != 1 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.ExportedAt.IsZero() {
		t.Fatal("expected export timestamp")
	}
}

func TestExportAggregatesAllValidationViolations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	assets := []spawn.MediaAsset{
		{ID: "a1", Name: "", Path: "", Type: spawn.AssetImage},
		{ID: "a1", Name: "Dupe", Path: "media/dupe.png", Type: spawn.AssetImage},
	}
	if err := st.SaveAssets(ctx, assets); err != nil {
		t.Fatalf("SaveAssets failed: %v", err)
	}

	engine := export.NewEngine(st, logging.NewNop())
	_, err := engine.Export(ctx)
	if !errors.Is(err, services.ErrExportValidation) {
		t.Fatalf("expected ErrExportValidation, got %v", err)
	}
	message := err.Error()
	for _, fragment := range []string{"missing name", "missing path", "duplicate id a1"} {
		if !strings.Contains(message, fragment) {
			t.Fatalf("expected %q in aggregated error, got %q", fragment, message)
		}
	}
}

func TestExportAllowsAssetsOnlyConfiguration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.SaveAssets(ctx, []spawn.MediaAsset{
		{ID: "a1", Name: "Confetti", Path: "media/confetti.webm", Type: spawn.AssetVideo},
	}); err != nil {
		t.Fatalf("SaveAssets failed: %v", err)
	}

	engine := export.NewEngine(st, logging.NewNop())
	result, err := engine.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(result.Data, `"profiles": []`) {
		t.Fatalf("expected empty profiles array, got %s", result.Data)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedConfiguration(t, st)
	engine := export.NewEngine(st, logging.NewNop())

	path, result, err := engine.Download(context.Background(), cfg.Paths.ExportDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export file: %v", err)
	}
	if string(data) != result.Data {
		t.Fatal("file content differs from export result")
	}
	if !strings.HasSuffix(path, ".json") {
		t.Fatalf("unexpected export filename: %q", path)
	}
}
