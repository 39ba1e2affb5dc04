package spawn

import (
	"time"

	"github.com/google/uuid"
)

// AssetType classifies a media asset.
type AssetType string

const (
	AssetImage AssetType = "image"
	AssetVideo AssetType = "video"
	AssetAudio AssetType = "audio"
)

var assetTypeSet = map[AssetType]struct{}{
	AssetImage: {},
	AssetVideo: {},
	AssetAudio: {},
}

// KnownAssetType reports whether t is one of the supported asset types.
func KnownAssetType(t AssetType) bool {
	_, ok := assetTypeSet[t]
	return ok
}

// MediaAsset is a media file or URL referenced by spawns. Assets are owned
// by the asset store; spawns reference them by id and never embed them.
type MediaAsset struct {
	ID    string
	Name  string
	Path  string
	IsURL bool
	Type  AssetType
}

// PositionMode controls how spawn coordinates are interpreted.
type PositionMode string

const (
	PositionAbsolute PositionMode = "absolute"
	PositionRelative PositionMode = "relative"
	PositionCentered PositionMode = "centered"
)

// Dimensions is a display size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Position is a display origin in pixels.
type Position struct {
	X int
	Y int
}

// Properties holds display properties for a spawned asset. Every field is
// optional; nil means "inherit" rather than a zero value.
type Properties struct {
	Volume       *float64
	Dimensions   *Dimensions
	Position     *Position
	Scale        *float64
	PositionMode PositionMode
	Loop         *bool
	Autoplay     *bool
	Muted        *bool
}

// Overrides carries per-spawn-asset deviations from the parent spawn.
type Overrides struct {
	Duration   *int64
	Properties *Properties
}

// SpawnAsset links a spawn to a media asset with per-spawn overrides.
type SpawnAsset struct {
	AssetID   string
	ID        string
	Enabled   bool
	Order     int
	Overrides Overrides
}

// BucketSelection determines how many members a bucket picks per trigger.
type BucketSelection string

const (
	SelectOne BucketSelection = "one"
	SelectN   BucketSelection = "n"
)

// BucketMember enrolls a spawn asset in a randomization bucket.
type BucketMember struct {
	SpawnAssetID string
	Weight       *float64
}

// RandomizationBucket groups spawn assets for random selection at trigger
// time. Members must reference spawn assets within the same spawn.
type RandomizationBucket struct {
	ID                string
	Name              string
	Selection         BucketSelection
	N                 *int
	Weighted          *bool
	NoImmediateRepeat *bool
	Members           []BucketMember
}

// Spawn is a named, triggerable unit displaying a group of assets for a
// duration. Order determines sequencing among siblings; uniqueness of Order
// is advisory, not enforced.
type Spawn struct {
	ID                   string
	Name                 string
	Description          string
	Enabled              bool
	Trigger              Trigger
	Duration             int64
	Assets               []SpawnAsset
	RandomizationBuckets []RandomizationBucket
	DefaultProperties    *Properties
	LastModified         time.Time
	Order                int
}

// SpawnProfile is a named collection of spawns. At most one profile is
// active at a time; the store enforces that invariant.
type SpawnProfile struct {
	ID               string
	Name             string
	Description      string
	WorkingDirectory string
	Spawns           []Spawn
	LastModified     time.Time
	IsActive         bool
}

// SpawnCount sums the spawns across the given profiles.
func SpawnCount(profiles []SpawnProfile) int {
	total := 0
	for _, profile := range profiles {
		total += len(profile.Spawns)
	}
	return total
}

// NewID returns a collision-resistant identifier for rename paths and new
// entities.
func NewID() string {
	return uuid.NewString()
}
