package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mediaspawner/internal/export"
	"mediaspawner/internal/importer"
	"mediaspawner/internal/logging"
	"mediaspawner/internal/services"
	"mediaspawner/internal/store"
	"mediaspawner/internal/testsupport"
)

const sampleConfig = `{
  "version": "1.0.0",
  "profiles": [
    {
      "id": "p1",
      "name": "Stream Alerts",
      "workingDirectory": "/media/overlays",
      "lastModified": "2026-03-14T09:26:53Z",
      "spawns": [
        {
          "id": "s1",
          "name": "Confetti Burst",
          "enabled": true,
          "trigger": {"type": "manual", "enabled": true, "config": {}},
          "duration": 5000,
          "assets": [
            {"assetId": "a1", "id": "sa1", "enabled": true, "order": 0}
          ]
        }
      ]
    }
  ],
  "assets": [
    {"id": "a1", "name": "Confetti", "path": "media/confetti.webm", "isUrl": false, "type": "video"}
  ]
}`

func newEngine(t *testing.T) (*importer.Engine, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return importer.NewEngine(st, logging.NewNop()), st
}

func TestImportIntoEmptyStorePreservesIDs(t *testing.T) {
	engine, st := newEngine(t)
	ctx := context.Background()

	result, err := engine.Import(ctx, sampleConfig, importer.DefaultOptions())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Profiles) != 1 || len(result.Assets) != 1 {
		t.Fatalf("unexpected counts: %d profiles, %d assets", len(result.Profiles), len(result.Assets))
	}
	// Rename only rewrites ids on collision; a clean import keeps them.
	if result.Profiles[0].ID != "p1" || result.Assets[0].ID != "a1" {
		t.Fatalf("no-collision import must preserve ids, got profile=%q asset=%q",
			result.Profiles[0].ID, result.Assets[0].ID)
	}
	if result.Profiles[0].Spawns[0].Assets[0].AssetID != "a1" {
		t.Fatalf("asset reference mangled: %q", result.Profiles[0].Spawns[0].Assets[0].AssetID)
	}
	if len(result.Conflicts.ProfileConflicts) != 0 || len(result.Conflicts.AssetConflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", result.Conflicts)
	}

	persisted, err := st.GetAllProfiles(ctx)
	if err != nil {
		t.Fatalf("GetAllProfiles failed: %v", err)
	}
	if len(persisted) != 1 || persisted[0].ID != "p1" {
		t.Fatalf("import not persisted: %#v", persisted)
	}
}

func TestImportRenameRewritesReferencesOnCollision(t *testing.T) {
	engine, st := newEngine(t)
	ctx := context.Background()
	testsupport.SeedConfiguration(t, st)

	result, err := engine.Import(ctx, sampleConfig, importer.DefaultOptions())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if len(result.Profiles) != 2 || len(result.Assets) != 2 {
		t.Fatalf("rename must keep both copies, got %d profiles %d assets",
			len(result.Profiles), len(result.Assets))
	}
	if result.Conflicts.ProfileConflicts[0] != "Stream Alerts" {
		t.Fatalf("unexpected profile conflicts: %v", result.Conflicts.ProfileConflicts)
	}
	if result.Conflicts.AssetConflicts[0] != "Confetti" {
		t.Fatalf("unexpected asset conflicts: %v", result.Conflicts.AssetConflicts)
	}

	renamedProfile := result.Profiles[1]
	renamedAsset := result.Assets[1]
	if renamedProfile.ID == "p1" || renamedAsset.ID == "a1" {
		t.Fatal("colliding entities must receive fresh ids")
	}
	if renamedProfile.Spawns[0].ID == "s1" || renamedProfile.Spawns[0].Assets[0].ID == "sa1" {
		t.Fatal("profile rename must regenerate spawn and spawn-asset ids")
	}
	// Reference integrity: the renamed profile's spawn asset must point at
	// the renamed asset's new id, not the original "a1".
	if got := renamedProfile.Spawns[0].Assets[0].AssetID; got != renamedAsset.ID {
		t.Fatalf("spawn asset references %q, want renamed asset id %q", got, renamedAsset.ID)
	}

	assertUniqueIDs(t, result)
	if len(result.Conflicts.InvalidAssetReferences) != 0 {
		t.Fatalf("rename must not create dangling references: %v", result.Conflicts.InvalidAssetReferences)
	}
}

func TestImportSkipKeepsExistingAndDropsIncoming(t *testing.T) {
	engine, st := newEngine(t)
	ctx := context.Background()
	testsupport.SeedConfiguration(t, st)

	modified := strings.ReplaceAll(sampleConfig, "Confetti Burst", "Replacement Burst")
	opts := importer.DefaultOptions()
	opts.ProfileStrategy = importer.StrategySkip
	opts.AssetStrategy = importer.StrategySkip

	result, err := engine.Import(ctx, modified, opts)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Profiles) != 1 || len(result.Assets) != 1 {
		t.Fatalf("skip must not grow collections, got %d profiles %d assets",
			len(result.Profiles), len(result.Assets))
	}
	if result.Profiles[0].Spawns[0].Name != "Confetti Burst" {
		t.Fatalf("skip must keep the existing profile, got spawn %q", result.Profiles[0].Spawns[0].Name)
	}
	if len(result.Conflicts.ProfileConflicts) != 1 {
		t.Fatalf("conflict must still be reported: %+v", result.Conflicts)
	}
	assertUniqueIDs(t, result)
}

func TestImportOverwriteReplacesExisting(t *testing.T) {
	engine, st := newEngine(t)
	ctx := context.Background()
	testsupport.SeedConfiguration(t, st)

	modified := strings.ReplaceAll(sampleConfig, "Confetti Burst", "Replacement Burst")
	opts := importer.DefaultOptions()
	opts.ProfileStrategy = importer.StrategyOverwrite
	opts.AssetStrategy = importer.StrategyOverwrite

	result, err := engine.Import(ctx, modified, opts)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Profiles) != 1 || len(result.Assets) != 1 {
		t.Fatalf("overwrite must not grow collections, got %d profiles %d assets",
			len(result.Profiles), len(result.Assets))
	}
	if result.Profiles[0].Spawns[0].Name != "Replacement Burst" {
		t.Fatalf("overwrite must take the imported profile, got spawn %q", result.Profiles[0].Spawns[0].Name)
	}
	if result.Profiles[0].ID != "p1" {
		t.Fatal("overwrite keeps the colliding id")
	}
	assertUniqueIDs(t, result)
}

func TestImportReportsDanglingAssetReference(t *testing.T) {
	engine, _ := newEngine(t)

	text := strings.ReplaceAll(sampleConfig, `"assetId": "a1"`, `"assetId": "missing"`)
	result, err := engine.Import(context.Background(), text, importer.DefaultOptions())
	if err != nil {
		t.Fatalf("dangling references must not fail the import: %v", err)
	}
	if len(result.Conflicts.InvalidAssetReferences) != 1 {
		t.Fatalf("expected one invalid reference, got %v", result.Conflicts.InvalidAssetReferences)
	}
	entry := result.Conflicts.InvalidAssetReferences[0]
	if !strings.Contains(entry, "Stream Alerts") || !strings.Contains(entry, "missing") {
		t.Fatalf("reference entry must identify profile and asset: %q", entry)
	}
}

func TestImportParseFailureIsFatal(t *testing.T) {
	engine, _ := newEngine(t)
	_, err := engine.Import(context.Background(), "{not json", importer.DefaultOptions())
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestImportAggregatesShapeViolations(t *testing.T) {
	engine, _ := newEngine(t)
	_, err := engine.Import(context.Background(), `{"profiles": {}}`, importer.DefaultOptions())
	if !errors.Is(err, services.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	message := err.Error()
	for _, fragment := range []string{"missing version", "profiles must be an array", "missing assets"} {
		if !strings.Contains(message, fragment) {
			t.Fatalf("expected %q in aggregated error: %q", fragment, message)
		}
	}
}

func TestImportVersionMismatchIsWarningOnly(t *testing.T) {
	engine, _ := newEngine(t)
	text := strings.Replace(sampleConfig, `"version": "1.0.0"`, `"version": "2.5.0"`, 1)
	result, err := engine.Import(context.Background(), text, importer.DefaultOptions())
	if err != nil {
		t.Fatalf("version mismatch must not fail the import: %v", err)
	}
	found := false
	for _, warning := range result.Metadata.Warnings {
		if strings.Contains(warning, "2.5.0") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected version warning, got %v", result.Metadata.Warnings)
	}
}

func TestImportBusinessValidationFailureIsFatal(t *testing.T) {
	engine, st := newEngine(t)
	text := strings.ReplaceAll(sampleConfig, `"id": "s1"`, `"id": ""`)
	_, err := engine.Import(context.Background(), text, importer.DefaultOptions())
	if !errors.Is(err, services.ErrImportValidation) {
		t.Fatalf("expected ErrImportValidation, got %v", err)
	}

	// Fatal validation must leave the store untouched.
	profiles, readErr := st.GetAllProfiles(context.Background())
	if readErr != nil {
		t.Fatalf("GetAllProfiles failed: %v", readErr)
	}
	if len(profiles) != 0 {
		t.Fatal("failed import must not persist anything")
	}
}

func TestImportUpdatesWorkingDirectoryWhenRequested(t *testing.T) {
	engine, st := newEngine(t)
	ctx := context.Background()

	opts := importer.DefaultOptions()
	opts.UpdateWorkingDirectory = true
	if _, err := engine.Import(ctx, sampleConfig, opts); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	settings, err := st.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.WorkingDirectory != "/media/overlays" {
		t.Fatalf("expected working directory update, got %q", settings.WorkingDirectory)
	}
}

func TestImportFlagsWorkingDirectoryConflict(t *testing.T) {
	engine, st := newEngine(t)
	ctx := context.Background()

	existing := "/somewhere/else"
	if _, err := st.UpdateWorkingDirectory(ctx, existing); err != nil {
		t.Fatalf("UpdateWorkingDirectory failed: %v", err)
	}

	result, err := engine.Import(ctx, sampleConfig, importer.DefaultOptions())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !result.Conflicts.WorkingDirectoryConflict {
		t.Fatal("expected working directory conflict to be flagged")
	}
	settings, err := st.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.WorkingDirectory != existing {
		t.Fatal("working directory must not change without UpdateWorkingDirectory")
	}
}

func TestImportRejectsUnknownStrategy(t *testing.T) {
	engine, _ := newEngine(t)
	opts := importer.DefaultOptions()
	opts.AssetStrategy = "merge"
	if _, err := engine.Import(context.Background(), sampleConfig, opts); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestExportThenImportRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedConfiguration(t, source)
	ctx := context.Background()

	exported, err := export.NewEngine(source, logging.NewNop()).Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	destCfg := testsupport.NewConfig(t)
	dest := testsupport.MustOpenStore(t, destCfg)
	result, err := importer.NewEngine(dest, logging.NewNop()).Import(ctx, exported.Data, importer.DefaultOptions())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Metadata.ProfileCount != 1 || result.Metadata.AssetCount != 1 || result.Metadata.SpawnCount != 1 {
		t.Fatalf("unexpected metadata: %+v", result.Metadata)
	}
	if result.Profiles[0].Spawns[0].Assets[0].AssetID != result.Assets[0].ID {
		t.Fatal("reference integrity lost across export/import")
	}
}

func assertUniqueIDs(t *testing.T, result *importer.Result) {
	t.Helper()
	profileIDs := map[string]struct{}{}
	for _, profile := range result.Profiles {
		if _, dup := profileIDs[profile.ID]; dup {
			t.Fatalf("duplicate profile id %q after merge", profile.ID)
		}
		profileIDs[profile.ID] = struct{}{}
	}
	assetIDs := map[string]struct{}{}
	for _, asset := range result.Assets {
		if _, dup := assetIDs[asset.ID]; dup {
			t.Fatalf("duplicate asset id %q after merge", asset.ID)
		}
		assetIDs[asset.ID] = struct{}{}
	}
}
