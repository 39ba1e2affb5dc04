package wire

import (
	"time"

	"mediaspawner/internal/spawn"
)

// Defaults applied when reconstructing a partially specified nested object
// on import. Export omits absent fields entirely, so a config that sets only
// one of a width/height (or x/y) pair is not round-trip stable; the missing
// half comes back as the default. Kept to match the established wire
// behavior rather than silently changing it.
const (
	DefaultDimension = 100
	DefaultCoord     = 0
)

// ToExportedAsset maps an internal asset to its wire projection.
func ToExportedAsset(asset spawn.MediaAsset) Asset {
	return Asset{
		ID:    asset.ID,
		Name:  asset.Name,
		Path:  asset.Path,
		IsURL: asset.IsURL,
		Type:  string(asset.Type),
	}
}

// FromExportedAsset maps a wire asset back to the internal model.
func FromExportedAsset(asset Asset) spawn.MediaAsset {
	return spawn.MediaAsset{
		ID:    asset.ID,
		Name:  asset.Name,
		Path:  asset.Path,
		IsURL: asset.IsURL,
		Type:  spawn.AssetType(asset.Type),
	}
}

// ToExportedProfile maps an internal profile, including every nested spawn,
// to its wire projection.
func ToExportedProfile(profile spawn.SpawnProfile) Profile {
	spawns := make([]Spawn, len(profile.Spawns))
	for i, sp := range profile.Spawns {
		spawns[i] = ToExportedSpawn(sp)
	}
	lastModified := profile.LastModified
	if lastModified.IsZero() {
		lastModified = time.Now().UTC()
	}
	return Profile{
		ID:               profile.ID,
		Name:             profile.Name,
		Description:      profile.Description,
		WorkingDirectory: profile.WorkingDirectory,
		Spawns:           spawns,
		LastModified:     lastModified.UTC().Format(time.RFC3339),
	}
}

// FromExportedProfile maps a wire profile back to the internal model. Spawn
// order is reassigned from array position; an unparseable lastModified falls
// back to the import time.
func FromExportedProfile(profile Profile) spawn.SpawnProfile {
	spawns := make([]spawn.Spawn, len(profile.Spawns))
	for i, sp := range profile.Spawns {
		spawns[i] = FromExportedSpawn(sp, i)
	}
	lastModified, err := time.Parse(time.RFC3339, profile.LastModified)
	if err != nil {
		lastModified = time.Now().UTC()
	}
	return spawn.SpawnProfile{
		ID:               profile.ID,
		Name:             profile.Name,
		Description:      profile.Description,
		WorkingDirectory: profile.WorkingDirectory,
		Spawns:           spawns,
		LastModified:     lastModified,
	}
}

// ToExportedSpawn maps an internal spawn to its wire projection. Sequencing
// is carried by array order, so Order and LastModified are not emitted.
func ToExportedSpawn(sp spawn.Spawn) Spawn {
	assets := make([]SpawnAsset, len(sp.Assets))
	for i, sa := range sp.Assets {
		assets[i] = toExportedSpawnAsset(sa)
	}
	var buckets []Bucket
	if len(sp.RandomizationBuckets) > 0 {
		buckets = make([]Bucket, len(sp.RandomizationBuckets))
		for i, bucket := range sp.RandomizationBuckets {
			buckets[i] = toExportedBucket(bucket)
		}
	}
	return Spawn{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Enabled:     sp.Enabled,
		Trigger: Trigger{
			Type:    string(sp.Trigger.Type),
			Enabled: sp.Trigger.Enabled,
			Config:  sp.Trigger.Config,
		},
		Duration:             sp.Duration,
		Assets:               assets,
		RandomizationBuckets: buckets,
		DefaultProperties:    ToExportedProperties(sp.DefaultProperties),
	}
}

// FromExportedSpawn maps a wire spawn back to the internal model, assigning
// the given sibling order.
func FromExportedSpawn(sp Spawn, order int) spawn.Spawn {
	assets := make([]spawn.SpawnAsset, len(sp.Assets))
	for i, sa := range sp.Assets {
		assets[i] = fromExportedSpawnAsset(sa)
	}
	var buckets []spawn.RandomizationBucket
	if len(sp.RandomizationBuckets) > 0 {
		buckets = make([]spawn.RandomizationBucket, len(sp.RandomizationBuckets))
		for i, bucket := range sp.RandomizationBuckets {
			buckets[i] = fromExportedBucket(bucket)
		}
	}
	config := sp.Trigger.Config
	if config == nil {
		config = map[string]any{}
	}
	return spawn.Spawn{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Enabled:     sp.Enabled,
		Trigger: spawn.Trigger{
			Type:    spawn.TriggerType(sp.Trigger.Type),
			Enabled: sp.Trigger.Enabled,
			Config:  config,
		},
		Duration:             sp.Duration,
		Assets:               assets,
		RandomizationBuckets: buckets,
		DefaultProperties:    FromExportedProperties(sp.DefaultProperties),
		LastModified:         time.Now().UTC(),
		Order:                order,
	}
}

func toExportedSpawnAsset(sa spawn.SpawnAsset) SpawnAsset {
	exported := SpawnAsset{
		AssetID: sa.AssetID,
		ID:      sa.ID,
		Enabled: sa.Enabled,
		Order:   sa.Order,
	}
	if sa.Overrides.Duration != nil || sa.Overrides.Properties != nil {
		exported.Overrides = &Overrides{
			Duration:   sa.Overrides.Duration,
			Properties: ToExportedProperties(sa.Overrides.Properties),
		}
	}
	return exported
}

func fromExportedSpawnAsset(sa SpawnAsset) spawn.SpawnAsset {
	internal := spawn.SpawnAsset{
		AssetID: sa.AssetID,
		ID:      sa.ID,
		Enabled: sa.Enabled,
		Order:   sa.Order,
	}
	if sa.Overrides != nil {
		internal.Overrides = spawn.Overrides{
			Duration:   sa.Overrides.Duration,
			Properties: FromExportedProperties(sa.Overrides.Properties),
		}
	}
	return internal
}

func toExportedBucket(bucket spawn.RandomizationBucket) Bucket {
	members := make([]BucketMember, len(bucket.Members))
	for i, member := range bucket.Members {
		members[i] = BucketMember(member)
	}
	return Bucket{
		ID:                bucket.ID,
		Name:              bucket.Name,
		Selection:         string(bucket.Selection),
		N:                 bucket.N,
		Weighted:          bucket.Weighted,
		NoImmediateRepeat: bucket.NoImmediateRepeat,
		Members:           members,
	}
}

func fromExportedBucket(bucket Bucket) spawn.RandomizationBucket {
	members := make([]spawn.BucketMember, len(bucket.Members))
	for i, member := range bucket.Members {
		members[i] = spawn.BucketMember(member)
	}
	return spawn.RandomizationBucket{
		ID:                bucket.ID,
		Name:              bucket.Name,
		Selection:         spawn.BucketSelection(bucket.Selection),
		N:                 bucket.N,
		Weighted:          bucket.Weighted,
		NoImmediateRepeat: bucket.NoImmediateRepeat,
		Members:           members,
	}
}

// ToExportedProperties flattens nested dimensions/position into wire fields.
// Nil input stays nil so the wire object is omitted entirely.
func ToExportedProperties(props *spawn.Properties) *Properties {
	if props == nil {
		return nil
	}
	exported := &Properties{
		Volume:       props.Volume,
		Scale:        props.Scale,
		PositionMode: string(props.PositionMode),
		Loop:         props.Loop,
		Autoplay:     props.Autoplay,
		Muted:        props.Muted,
	}
	if props.Dimensions != nil {
		width := props.Dimensions.Width
		height := props.Dimensions.Height
		exported.Width = &width
		exported.Height = &height
	}
	if props.Position != nil {
		x := props.Position.X
		y := props.Position.Y
		exported.X = &x
		exported.Y = &y
	}
	return exported
}

// FromExportedProperties reconstructs nested objects from flattened fields.
// A nested object is built when at least one of its components is present,
// with the missing half defaulted (see DefaultDimension/DefaultCoord).
func FromExportedProperties(props *Properties) *spawn.Properties {
	if props == nil {
		return nil
	}
	internal := &spawn.Properties{
		Volume:       props.Volume,
		Scale:        props.Scale,
		PositionMode: spawn.PositionMode(props.PositionMode),
		Loop:         props.Loop,
		Autoplay:     props.Autoplay,
		Muted:        props.Muted,
	}
	if props.Width != nil || props.Height != nil {
		dims := spawn.Dimensions{Width: DefaultDimension, Height: DefaultDimension}
		if props.Width != nil {
			dims.Width = *props.Width
		}
		if props.Height != nil {
			dims.Height = *props.Height
		}
		internal.Dimensions = &dims
	}
	if props.X != nil || props.Y != nil {
		pos := spawn.Position{X: DefaultCoord, Y: DefaultCoord}
		if props.X != nil {
			pos.X = *props.X
		}
		if props.Y != nil {
			pos.Y = *props.Y
		}
		internal.Position = &pos
	}
	return internal
}
