package wire

// CurrentVersion is the schema version this build reads and writes. Imports
// carrying another version produce a warning, not a failure.
const CurrentVersion = "1.0.0"

// Config is the top-level wire shape for export files and backup payloads.
type Config struct {
	Version  string    `json:"version"`
	Profiles []Profile `json:"profiles"`
	Assets   []Asset   `json:"assets"`
}

// Asset is the wire projection of a media asset.
type Asset struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsURL bool   `json:"isUrl"`
	Type  string `json:"type"`
}

// Profile is the wire projection of a spawn profile. Spawn sequence is
// carried by array order.
type Profile struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	WorkingDirectory string  `json:"workingDirectory"`
	Spawns           []Spawn `json:"spawns"`
	LastModified     string  `json:"lastModified"`
}

// Spawn is the wire projection of a spawn.
type Spawn struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Description          string       `json:"description,omitempty"`
	Enabled              bool         `json:"enabled"`
	Trigger              Trigger      `json:"trigger"`
	Duration             int64        `json:"duration"`
	Assets               []SpawnAsset `json:"assets"`
	RandomizationBuckets []Bucket     `json:"randomizationBuckets,omitempty"`
	DefaultProperties    *Properties  `json:"defaultProperties,omitempty"`
}

// Trigger is the wire projection of a spawn trigger. Config content is
// opaque at this layer.
type Trigger struct {
	Type    string         `json:"type"`
	Enabled bool           `json:"enabled"`
	Config  map[string]any `json:"config"`
}

// SpawnAsset is the wire projection of a spawn-to-asset reference.
type SpawnAsset struct {
	AssetID   string     `json:"assetId"`
	ID        string     `json:"id"`
	Enabled   bool       `json:"enabled"`
	Order     int        `json:"order"`
	Overrides *Overrides `json:"overrides,omitempty"`
}

// Overrides carries per-spawn-asset deviations.
type Overrides struct {
	Duration   *int64      `json:"duration,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// Properties is the flattened wire projection of display properties. Nested
// dimensions/position objects become width/height and x/y.
type Properties struct {
	Volume       *float64 `json:"volume,omitempty"`
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	Scale        *float64 `json:"scale,omitempty"`
	PositionMode string   `json:"positionMode,omitempty"`
	X            *int     `json:"x,omitempty"`
	Y            *int     `json:"y,omitempty"`
	Loop         *bool    `json:"loop,omitempty"`
	Autoplay     *bool    `json:"autoplay,omitempty"`
	Muted        *bool    `json:"muted,omitempty"`
}

// Bucket is the wire projection of a randomization bucket.
type Bucket struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Selection         string         `json:"selection"`
	N                 *int           `json:"n,omitempty"`
	Weighted          *bool          `json:"weighted,omitempty"`
	NoImmediateRepeat *bool          `json:"noImmediateRepeat,omitempty"`
	Members           []BucketMember `json:"members"`
}

// BucketMember enrolls a spawn asset in a bucket.
type BucketMember struct {
	SpawnAssetID string   `json:"spawnAssetId"`
	Weight       *float64 `json:"weight,omitempty"`
}
