package testsupport

import (
	"context"
	"testing"
	"time"

	"mediaspawner/internal/config"
	"mediaspawner/internal/spawn"
	"mediaspawner/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedConfiguration persists a one-profile, one-asset configuration and
// returns it. The profile's single spawn references the asset.
func SeedConfiguration(t testing.TB, st *store.Store) ([]spawn.SpawnProfile, []spawn.MediaAsset) {
	t.Helper()

	assets := []spawn.MediaAsset{
		{ID: "a1", Name: "Confetti", Path: "media/confetti.webm", Type: spawn.AssetVideo},
	}
	profiles := []spawn.SpawnProfile{
		{
			ID:           "p1",
			Name:         "Stream Alerts",
			LastModified: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			Spawns: []spawn.Spawn{
				{
					ID:       "s1",
					Name:     "Confetti Burst",
					Enabled:  true,
					Trigger:  spawn.ManualTrigger(),
					Duration: 5000,
					Order:    0,
					Assets: []spawn.SpawnAsset{
						{AssetID: "a1", ID: "sa1", Enabled: true, Order: 0},
					},
				},
			},
		},
	}

	ctx := context.Background()
	if err := st.ReplaceSnapshot(ctx, profiles, assets); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return profiles, assets
}
