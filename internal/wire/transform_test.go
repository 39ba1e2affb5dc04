package wire_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"mediaspawner/internal/spawn"
	"mediaspawner/internal/wire"
)

func fullProfile() spawn.SpawnProfile {
	volume := 0.8
	scale := 1.5
	loop := true
	duration := int64(1500)
	n := 2
	weighted := true
	weight := 2.5
	return spawn.SpawnProfile{
		ID:               "p1",
		Name:             "Stream Alerts",
		Description:      "Alerts and celebrations",
		WorkingDirectory: "/media/overlays",
		LastModified:     time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Spawns: []spawn.Spawn{
			{
				ID:      "s1",
				Name:    "Confetti Burst",
				Enabled: true,
				Trigger: spawn.Trigger{
					Type:    spawn.TriggerCheer,
					Enabled: true,
					Config:  map[string]any{"minBits": float64(100)},
				},
				Duration: 5000,
				Order:    0,
				Assets: []spawn.SpawnAsset{
					{
						AssetID: "a1",
						ID:      "sa1",
						Enabled: true,
						Order:   0,
						Overrides: spawn.Overrides{
							Duration: &duration,
							Properties: &spawn.Properties{
								Volume:       &volume,
								Dimensions:   &spawn.Dimensions{Width: 640, Height: 360},
								Position:     &spawn.Position{X: 10, Y: 20},
								Scale:        &scale,
								PositionMode: spawn.PositionAbsolute,
								Loop:         &loop,
							},
						},
					},
					{AssetID: "a2", ID: "sa2", Enabled: true, Order: 1},
				},
				RandomizationBuckets: []spawn.RandomizationBucket{
					{
						ID:        "b1",
						Name:      "Pick two",
						Selection: spawn.SelectN,
						N:         &n,
						Weighted:  &weighted,
						Members: []spawn.BucketMember{
							{SpawnAssetID: "sa1", Weight: &weight},
							{SpawnAssetID: "sa2"},
						},
					},
				},
				DefaultProperties: &spawn.Properties{
					Dimensions: &spawn.Dimensions{Width: 1920, Height: 1080},
				},
			},
		},
	}
}

func TestProfileRoundTrip(t *testing.T) {
	original := fullProfile()
	restored := wire.FromExportedProfile(wire.ToExportedProfile(original))

	// LastModified on spawns and order are regenerated on import; normalize
	// before comparing.
	for i := range restored.Spawns {
		restored.Spawns[i].LastModified = original.Spawns[i].LastModified
	}
	if !reflect.DeepEqual(original, restored) {
		t.Fatalf("round trip drifted:\noriginal: %#v\nrestored: %#v", original, restored)
	}
}

func TestSpawnOrderReassignedFromArrayPosition(t *testing.T) {
	profile := fullProfile()
	second := profile.Spawns[0].Clone()
	second.ID = "s2"
	second.Order = 99
	profile.Spawns = append(profile.Spawns, second)

	restored := wire.FromExportedProfile(wire.ToExportedProfile(profile))
	if restored.Spawns[0].Order != 0 || restored.Spawns[1].Order != 1 {
		t.Fatalf("expected order from array position, got %d and %d",
			restored.Spawns[0].Order, restored.Spawns[1].Order)
	}
}

func TestAbsentOptionalFieldsAreOmittedNotNull(t *testing.T) {
	profile := spawn.SpawnProfile{
		ID:           "p1",
		Name:         "Minimal",
		LastModified: time.Now().UTC(),
		Spawns: []spawn.Spawn{
			{
				ID:      "s1",
				Name:    "Bare",
				Trigger: spawn.ManualTrigger(),
				Assets:  []spawn.SpawnAsset{{AssetID: "a1", ID: "sa1"}},
			},
		},
	}
	data, err := json.Marshal(wire.ToExportedProfile(profile))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	for _, forbidden := range []string{"description", "overrides", "randomizationBuckets", "defaultProperties", "null"} {
		if strings.Contains(text, forbidden) {
			t.Fatalf("expected %q to be omitted, got %s", forbidden, text)
		}
	}
}

func TestTimestampsBecomeISO8601(t *testing.T) {
	profile := fullProfile()
	exported := wire.ToExportedProfile(profile)
	if exported.LastModified != "2026-03-14T09:26:53Z" {
		t.Fatalf("unexpected timestamp format: %q", exported.LastModified)
	}
	restored := wire.FromExportedProfile(exported)
	if !restored.LastModified.Equal(profile.LastModified) {
		t.Fatalf("timestamp drifted: %v", restored.LastModified)
	}
}

func TestPartialDimensionsDefaultOnImport(t *testing.T) {
	width := 640
	props := wire.FromExportedProperties(&wire.Properties{Width: &width})
	if props.Dimensions == nil {
		t.Fatal("expected dimensions to be reconstructed")
	}
	if props.Dimensions.Width != 640 || props.Dimensions.Height != wire.DefaultDimension {
		t.Fatalf("unexpected dimensions: %#v", props.Dimensions)
	}
	if props.Position != nil {
		t.Fatal("position must stay absent when neither coordinate is present")
	}

	y := 33
	props = wire.FromExportedProperties(&wire.Properties{Y: &y})
	if props.Position == nil || props.Position.X != wire.DefaultCoord || props.Position.Y != 33 {
		t.Fatalf("unexpected position: %#v", props.Position)
	}
}

func TestIdentityPassesThroughUnchanged(t *testing.T) {
	profile := fullProfile()
	exported := wire.ToExportedProfile(profile)
	if exported.ID != "p1" || exported.Spawns[0].ID != "s1" {
		t.Fatal("transform must not rewrite ids")
	}
	if exported.Spawns[0].Assets[0].AssetID != "a1" {
		t.Fatal("transform must not rewrite references")
	}
	restored := wire.FromExportedProfile(exported)
	if restored.Spawns[0].Assets[0].AssetID != "a1" {
		t.Fatal("reverse transform must not rewrite references")
	}
}

func TestUnknownTriggerTypeCarriedOpaquely(t *testing.T) {
	profile := fullProfile()
	profile.Spawns[0].Trigger = spawn.Trigger{
		Type:    "hologram.summon",
		Enabled: true,
		Config:  map[string]any{"power": "maximum"},
	}
	restored := wire.FromExportedProfile(wire.ToExportedProfile(profile))
	if restored.Spawns[0].Trigger.Type != "hologram.summon" {
		t.Fatalf("trigger type mangled: %q", restored.Spawns[0].Trigger.Type)
	}
	if restored.Spawns[0].Trigger.Config["power"] != "maximum" {
		t.Fatal("trigger config mangled")
	}
}
