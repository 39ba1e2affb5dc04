package spawn

import (
	"fmt"
	"strings"
)

// Report accumulates validation findings. Errors block the operation being
// validated; warnings are surfaced to the caller but never block.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether validation found no errors. Warnings do not affect OK.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another report into r.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Summary joins all errors into a single human-readable message.
func (r *Report) Summary() string {
	return strings.Join(r.Errors, "; ")
}

// ValidateAssets applies business rules to an asset collection: required
// fields, known types, and id uniqueness.
func ValidateAssets(assets []MediaAsset) Report {
	var report Report
	seen := make(map[string]struct{}, len(assets))
	for i, asset := range assets {
		label := assetLabel(i, asset)
		if strings.TrimSpace(asset.ID) == "" {
			report.errorf("%s: missing id", label)
		}
		if strings.TrimSpace(asset.Name) == "" {
			report.errorf("%s: missing name", label)
		}
		if strings.TrimSpace(asset.Path) == "" {
			report.errorf("%s: missing path", label)
		}
		if !KnownAssetType(asset.Type) {
			report.errorf("%s: unknown asset type %q", label, asset.Type)
		}
		if asset.ID != "" {
			if _, dup := seen[asset.ID]; dup {
				report.errorf("%s: duplicate asset id %q", label, asset.ID)
			}
			seen[asset.ID] = struct{}{}
		}
	}
	return report
}

// ValidateProfiles applies business rules to a profile collection, including
// every nested spawn, spawn asset, trigger, and randomization bucket.
func ValidateProfiles(profiles []SpawnProfile) Report {
	var report Report
	seen := make(map[string]struct{}, len(profiles))
	for i, profile := range profiles {
		label := profileLabel(i, profile)
		if strings.TrimSpace(profile.ID) == "" {
			report.errorf("%s: missing id", label)
		}
		if strings.TrimSpace(profile.Name) == "" {
			report.errorf("%s: missing name", label)
		}
		if profile.ID != "" {
			if _, dup := seen[profile.ID]; dup {
				report.errorf("%s: duplicate profile id %q", label, profile.ID)
			}
			seen[profile.ID] = struct{}{}
		}
		validateSpawns(&report, label, profile.Spawns)
	}
	return report
}

func validateSpawns(report *Report, profileLabel string, spawns []Spawn) {
	seenIDs := make(map[string]struct{}, len(spawns))
	seenOrders := make(map[int]struct{}, len(spawns))
	for i, sp := range spawns {
		label := fmt.Sprintf("%s spawn %s", profileLabel, nameOrIndex(sp.Name, sp.ID, i))
		if strings.TrimSpace(sp.ID) == "" {
			report.errorf("%s: missing id", label)
		}
		if strings.TrimSpace(sp.Name) == "" {
			report.errorf("%s: missing name", label)
		}
		if sp.Duration < 0 {
			report.errorf("%s: negative duration %d", label, sp.Duration)
		}
		if sp.ID != "" {
			if _, dup := seenIDs[sp.ID]; dup {
				report.errorf("%s: duplicate spawn id %q", label, sp.ID)
			}
			seenIDs[sp.ID] = struct{}{}
		}
		// Order uniqueness is advisory.
		if _, dup := seenOrders[sp.Order]; dup {
			report.warnf("%s: duplicate order %d among siblings", label, sp.Order)
		}
		seenOrders[sp.Order] = struct{}{}

		validateTrigger(report, label, sp.Trigger)
		assetIDs := validateSpawnAssets(report, label, sp.Assets)
		validateBuckets(report, label, sp.RandomizationBuckets, assetIDs)
	}
}

func validateTrigger(report *Report, label string, trigger Trigger) {
	if strings.TrimSpace(string(trigger.Type)) == "" {
		report.errorf("%s: trigger missing type", label)
		return
	}
	if !KnownTriggerType(trigger.Type) {
		report.warnf("%s: unrecognized trigger type %q carried opaquely", label, trigger.Type)
	}
}

func validateSpawnAssets(report *Report, label string, assets []SpawnAsset) map[string]struct{} {
	ids := make(map[string]struct{}, len(assets))
	for i, sa := range assets {
		saLabel := fmt.Sprintf("%s asset[%d]", label, i)
		if strings.TrimSpace(sa.ID) == "" {
			report.errorf("%s: missing id", saLabel)
		}
		if strings.TrimSpace(sa.AssetID) == "" {
			report.errorf("%s: missing assetId", saLabel)
		}
		if sa.ID != "" {
			if _, dup := ids[sa.ID]; dup {
				report.errorf("%s: duplicate spawn-asset id %q", saLabel, sa.ID)
			}
			ids[sa.ID] = struct{}{}
		}
		if sa.Overrides.Duration != nil && *sa.Overrides.Duration < 0 {
			report.errorf("%s: negative duration override", saLabel)
		}
	}
	return ids
}

func validateBuckets(report *Report, label string, buckets []RandomizationBucket, spawnAssetIDs map[string]struct{}) {
	for i, bucket := range buckets {
		bLabel := fmt.Sprintf("%s bucket %s", label, nameOrIndex(bucket.Name, bucket.ID, i))
		if strings.TrimSpace(bucket.ID) == "" {
			report.errorf("%s: missing id", bLabel)
		}
		if strings.TrimSpace(bucket.Name) == "" {
			report.errorf("%s: missing name", bLabel)
		}
		switch bucket.Selection {
		case SelectOne:
		case SelectN:
			if bucket.N == nil || *bucket.N < 1 {
				report.errorf("%s: selection %q requires n >= 1", bLabel, SelectN)
			}
		default:
			report.errorf("%s: unknown selection %q", bLabel, bucket.Selection)
		}
		for j, member := range bucket.Members {
			if _, ok := spawnAssetIDs[member.SpawnAssetID]; !ok {
				report.errorf("%s member[%d]: references unknown spawn asset %q", bLabel, j, member.SpawnAssetID)
			}
			if member.Weight != nil && *member.Weight < 0 {
				report.errorf("%s member[%d]: negative weight", bLabel, j)
			}
		}
	}
}

func assetLabel(index int, asset MediaAsset) string {
	return "asset " + nameOrIndex(asset.Name, asset.ID, index)
}

func profileLabel(index int, profile SpawnProfile) string {
	return "profile " + nameOrIndex(profile.Name, profile.ID, index)
}

func nameOrIndex(name, id string, index int) string {
	if strings.TrimSpace(name) != "" {
		return fmt.Sprintf("%q", name)
	}
	if strings.TrimSpace(id) != "" {
		return id
	}
	return fmt.Sprintf("[%d]", index)
}
