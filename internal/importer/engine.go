package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mediaspawner/internal/logging"
	"mediaspawner/internal/services"
	"mediaspawner/internal/spawn"
	"mediaspawner/internal/store"
	"mediaspawner/internal/wire"
)

// ConflictStrategy selects how an id collision between imported and
// existing entities is resolved.
type ConflictStrategy string

const (
	// StrategySkip keeps the existing entity and drops the imported one.
	StrategySkip ConflictStrategy = "skip"
	// StrategyOverwrite replaces the existing entity in place.
	StrategyOverwrite ConflictStrategy = "overwrite"
	// StrategyRename gives the imported entity a fresh id and keeps both.
	StrategyRename ConflictStrategy = "rename"
)

func validStrategy(s ConflictStrategy) bool {
	switch s {
	case StrategySkip, StrategyOverwrite, StrategyRename:
		return true
	}
	return false
}

// Options controls a single import.
type Options struct {
	ProfileStrategy         ConflictStrategy
	AssetStrategy           ConflictStrategy
	UpdateWorkingDirectory  bool
	ValidateAssetReferences bool
}

// DefaultOptions returns the rename/rename defaults: no data is ever lost
// silently by a single import.
func DefaultOptions() Options {
	return Options{
		ProfileStrategy:         StrategyRename,
		AssetStrategy:           StrategyRename,
		ValidateAssetReferences: true,
	}
}

// Conflicts reports everything the merge had to reconcile. All entries are
// informational; none of them failed the import.
type Conflicts struct {
	ProfileConflicts         []string
	AssetConflicts           []string
	InvalidAssetReferences   []string
	WorkingDirectoryConflict bool
}

// Metadata summarizes a successful import.
type Metadata struct {
	ImportedAt   time.Time
	Version      string
	ProfileCount int
	AssetCount   int
	SpawnCount   int
	Warnings     []string
}

// Result carries the merged collections as persisted, plus the conflict
// report.
type Result struct {
	Profiles  []spawn.SpawnProfile
	Assets    []spawn.MediaAsset
	Metadata  Metadata
	Conflicts Conflicts
}

// Engine reconciles imported configurations with the current store state.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
}

// NewEngine constructs an import engine. A nil logger is replaced with a
// no-op logger.
func NewEngine(st *store.Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  st,
		logger: logging.NewComponentLogger(logger, "import"),
	}
}

// Import parses, validates, merges, and persists a configuration. Any
// validation error fails the whole import; there is no partial import.
func (e *Engine) Import(ctx context.Context, text string, opts Options) (*Result, error) {
	if !validStrategy(opts.ProfileStrategy) || !validStrategy(opts.AssetStrategy) {
		return nil, services.Wrap(services.ErrMerge, "import", "options",
			fmt.Sprintf("conflict strategies must be skip, overwrite, or rename (got profile=%q asset=%q)",
				opts.ProfileStrategy, opts.AssetStrategy), nil)
	}

	cfg, warnings, err := Parse(text)
	if err != nil {
		return nil, err
	}

	imported := transform(cfg)

	report := spawn.ValidateAssets(imported.assets)
	report.Merge(spawn.ValidateProfiles(imported.profiles))
	if !report.OK() {
		return nil, services.Wrap(services.ErrImportValidation, "import", "validate",
			report.Summary(), nil)
	}
	warnings = append(warnings, report.Warnings...)

	existingProfiles, err := e.store.GetAllProfiles(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrMerge, "import", "read profiles", "", err)
	}
	existingAssets, err := e.store.GetAssets(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrMerge, "import", "read assets", "", err)
	}

	mergedAssets, assetIDMap, assetConflicts := mergeAssets(existingAssets, imported.assets, opts.AssetStrategy)
	mergedProfiles, profileConflicts := mergeProfiles(existingProfiles, imported.profiles, opts.ProfileStrategy, assetIDMap)

	conflicts := Conflicts{
		ProfileConflicts: profileConflicts,
		AssetConflicts:   assetConflicts,
	}
	if opts.ValidateAssetReferences {
		conflicts.InvalidAssetReferences = findInvalidAssetReferences(mergedProfiles, mergedAssets)
	}

	if err := e.store.ReplaceSnapshot(ctx, mergedProfiles, mergedAssets); err != nil {
		return nil, services.Wrap(services.ErrMerge, "import", "persist", "", err)
	}

	conflicts.WorkingDirectoryConflict = e.applyWorkingDirectory(ctx, imported.profiles, opts, &warnings)

	metadata := Metadata{
		ImportedAt:   time.Now().UTC(),
		Version:      cfg.Version,
		ProfileCount: len(mergedProfiles),
		AssetCount:   len(mergedAssets),
		SpawnCount:   spawn.SpawnCount(mergedProfiles),
		Warnings:     warnings,
	}

	e.logger.Info("configuration imported",
		logging.Int("profiles", metadata.ProfileCount),
		logging.Int("assets", metadata.AssetCount),
		logging.Int("profile_conflicts", len(conflicts.ProfileConflicts)),
		logging.Int("asset_conflicts", len(conflicts.AssetConflicts)),
		logging.Int("invalid_references", len(conflicts.InvalidAssetReferences)),
	)

	return &Result{
		Profiles:  mergedProfiles,
		Assets:    mergedAssets,
		Metadata:  metadata,
		Conflicts: conflicts,
	}, nil
}

type transformed struct {
	profiles []spawn.SpawnProfile
	assets   []spawn.MediaAsset
}

func transform(cfg *wire.Config) transformed {
	out := transformed{
		profiles: make([]spawn.SpawnProfile, len(cfg.Profiles)),
		assets:   make([]spawn.MediaAsset, len(cfg.Assets)),
	}
	for i, profile := range cfg.Profiles {
		out.profiles[i] = wire.FromExportedProfile(profile)
	}
	for i, asset := range cfg.Assets {
		out.assets[i] = wire.FromExportedAsset(asset)
	}
	return out
}

// applyWorkingDirectory pushes the first imported working directory into
// settings when requested. Failures are logged, never fatal: the merged
// configuration is already persisted at this point.
func (e *Engine) applyWorkingDirectory(ctx context.Context, imported []spawn.SpawnProfile, opts Options, warnings *[]string) bool {
	var incoming string
	for _, profile := range imported {
		if strings.TrimSpace(profile.WorkingDirectory) != "" {
			incoming = profile.WorkingDirectory
			break
		}
	}
	if incoming == "" {
		return false
	}

	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		e.logger.Warn("reading settings for working directory failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "working_directory_read_failed"),
		)
		return false
	}
	conflict := settings.WorkingDirectory != "" && settings.WorkingDirectory != incoming

	if !opts.UpdateWorkingDirectory {
		return conflict
	}
	if _, err := e.store.UpdateWorkingDirectory(ctx, incoming); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("working directory update failed: %v", err))
		e.logger.Warn("working directory update failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "working_directory_update_failed"),
			logging.String(logging.FieldErrorHint, "update it manually in settings"),
		)
	}
	return conflict
}
