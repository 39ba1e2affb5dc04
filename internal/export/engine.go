package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"mediaspawner/internal/logging"
	"mediaspawner/internal/preflight"
	"mediaspawner/internal/services"
	"mediaspawner/internal/spawn"
	"mediaspawner/internal/store"
	"mediaspawner/internal/wire"
)

// Metadata summarizes a successful export.
type Metadata struct {
	ExportedAt   time.Time
	Version      string
	ProfileCount int
	AssetCount   int
	SpawnCount   int
}

// Result carries the serialized configuration and its metadata.
type Result struct {
	Data     string
	Metadata Metadata
}

// Engine reads the configuration stores and produces wire-format exports.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
}

// NewEngine constructs an export engine. A nil logger is replaced with a
// no-op logger.
func NewEngine(st *store.Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  st,
		logger: logging.NewComponentLogger(logger, "export"),
	}
}

// Export serializes the entire configuration. It fails on an empty store and
// on any validation violation; there is no partial success.
func (e *Engine) Export(ctx context.Context) (*Result, error) {
	profiles, err := e.store.GetAllProfiles(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrMerge, "export", "read profiles", "", err)
	}
	assets, err := e.store.GetAssets(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrMerge, "export", "read assets", "", err)
	}

	if len(profiles) == 0 && len(assets) == 0 {
		return nil, services.Wrap(services.ErrEmptyDataset, "export", "",
			"no profiles or assets to export", nil)
	}

	exported := wire.Config{
		Version:  wire.CurrentVersion,
		Profiles: make([]wire.Profile, len(profiles)),
		Assets:   make([]wire.Asset, len(assets)),
	}
	for i, profile := range profiles {
		exported.Profiles[i] = wire.ToExportedProfile(profile)
	}
	for i, asset := range assets {
		exported.Assets[i] = wire.ToExportedAsset(asset)
	}

	if violations := validateExported(exported); len(violations) > 0 {
		return nil, services.Wrap(services.ErrExportValidation, "export", "validate",
			strings.Join(violations, "; "), nil)
	}

	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return nil, services.Wrap(services.ErrSerialization, "export", "serialize", "", err)
	}
	if err := verifyParseBack(data); err != nil {
		return nil, err
	}

	metadata := Metadata{
		ExportedAt:   time.Now().UTC(),
		Version:      wire.CurrentVersion,
		ProfileCount: len(profiles),
		AssetCount:   len(assets),
		SpawnCount:   spawn.SpawnCount(profiles),
	}
	e.logger.Info("configuration exported",
		logging.Int("profiles", metadata.ProfileCount),
		logging.Int("assets", metadata.AssetCount),
		logging.Int("spawns", metadata.SpawnCount),
	)
	return &Result{Data: string(data), Metadata: metadata}, nil
}

// Download exports the configuration and writes it to a timestamped file in
// dir, after checking the directory is writable.
func (e *Engine) Download(ctx context.Context, dir string) (string, *Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, services.Wrap(services.ErrMerge, "export", "prepare directory", dir, err)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return "", nil, services.Wrap(services.ErrMerge, "export", "preflight",
			fmt.Sprintf("export directory %q is not writable", dir), err)
	}
	if err := preflight.EnsureSpace(dir, preflight.MinExportSpace); err != nil {
		return "", nil, services.Wrap(services.ErrMerge, "export", "preflight", "", err)
	}

	result, err := e.Export(ctx)
	if err != nil {
		return "", nil, err
	}

	name := fmt.Sprintf("mediaspawner-config-%s.json",
		result.Metadata.ExportedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(result.Data), 0o644); err != nil {
		return "", nil, services.Wrap(services.ErrMerge, "export", "write file", path, err)
	}

	e.logger.Info("export written", logging.String("path", path))
	return path, result, nil
}

// validateExported checks the wire projection: required fields present and
// ids unique within each collection. Every violation is reported, never just
// the first.
func validateExported(cfg wire.Config) []string {
	var violations []string

	assetIDs := make(map[string]struct{}, len(cfg.Assets))
	for i, asset := range cfg.Assets {
		label := fmt.Sprintf("asset[%d]", i)
		if asset.Name != "" {
			label = fmt.Sprintf("asset %q", asset.Name)
		}
		if asset.ID == "" {
			violations = append(violations, label+": missing id")
		}
		if asset.Name == "" {
			violations = append(violations, label+": missing name")
		}
		if asset.Path == "" {
			violations = append(violations, label+": missing path")
		}
		if asset.ID != "" {
			if _, dup := assetIDs[asset.ID]; dup {
				violations = append(violations, label+": duplicate id "+asset.ID)
			}
			assetIDs[asset.ID] = struct{}{}
		}
	}

	profileIDs := make(map[string]struct{}, len(cfg.Profiles))
	for i, profile := range cfg.Profiles {
		label := fmt.Sprintf("profile[%d]", i)
		if profile.Name != "" {
			label = fmt.Sprintf("profile %q", profile.Name)
		}
		if profile.ID == "" {
			violations = append(violations, label+": missing id")
		}
		if profile.Name == "" {
			violations = append(violations, label+": missing name")
		}
		if profile.ID != "" {
			if _, dup := profileIDs[profile.ID]; dup {
				violations = append(violations, label+": duplicate id "+profile.ID)
			}
			profileIDs[profile.ID] = struct{}{}
		}
		for j, sp := range profile.Spawns {
			if sp.ID == "" {
				violations = append(violations, fmt.Sprintf("%s spawn[%d]: missing id", label, j))
			}
			if sp.Name == "" {
				violations = append(violations, fmt.Sprintf("%s spawn[%d]: missing name", label, j))
			}
		}
	}

	return violations
}

// verifyParseBack confirms the serialized text decodes and re-encodes to the
// same bytes. A mismatch is an internal bug, not a user error.
func verifyParseBack(data []byte) error {
	var parsed wire.Config
	if err := json.Unmarshal(data, &parsed); err != nil {
		return services.Wrap(services.ErrSerialization, "export", "parse back", "", err)
	}
	again, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrSerialization, "export", "re-serialize", "", err)
	}
	if !bytes.Equal(data, again) {
		return services.Wrap(services.ErrSerialization, "export", "parse back",
			"serialized output is not structurally stable", nil)
	}
	return nil
}
