package importer

import (
	"fmt"

	"mediaspawner/internal/spawn"
)

// mergeAssets reconciles imported assets against the existing collection.
// It returns the merged collection, the id mapping applied to imported
// assets (old id -> merged id) for downstream reference rewriting, and the
// names of colliding assets.
func mergeAssets(existing, imported []spawn.MediaAsset, strategy ConflictStrategy) ([]spawn.MediaAsset, map[string]string, []string) {
	merged := append([]spawn.MediaAsset{}, existing...)
	indexByID := make(map[string]int, len(merged))
	for i, asset := range merged {
		indexByID[asset.ID] = i
	}

	idMap := make(map[string]string, len(imported))
	var conflicts []string

	for _, asset := range imported {
		index, collides := indexByID[asset.ID]
		if !collides {
			idMap[asset.ID] = asset.ID
			indexByID[asset.ID] = len(merged)
			merged = append(merged, asset)
			continue
		}

		conflicts = append(conflicts, asset.Name)
		switch strategy {
		case StrategySkip:
			idMap[asset.ID] = merged[index].ID
		case StrategyOverwrite:
			idMap[asset.ID] = asset.ID
			merged[index] = asset
		case StrategyRename:
			oldID := asset.ID
			asset.ID = spawn.NewID()
			idMap[oldID] = asset.ID
			indexByID[asset.ID] = len(merged)
			merged = append(merged, asset)
		}
	}

	return merged, idMap, conflicts
}

// mergeProfiles reconciles imported profiles against the existing
// collection. Asset references are rewritten through assetIDMap on every
// imported profile, collision or not, because a referenced asset may have
// been renamed during the asset merge.
func mergeProfiles(existing, imported []spawn.SpawnProfile, strategy ConflictStrategy, assetIDMap map[string]string) ([]spawn.SpawnProfile, []string) {
	merged := make([]spawn.SpawnProfile, len(existing))
	for i, profile := range existing {
		merged[i] = profile
	}
	indexByID := make(map[string]int, len(merged))
	for i, profile := range merged {
		indexByID[profile.ID] = i
	}

	var conflicts []string

	for _, profile := range imported {
		incoming := profile.Clone()
		rewriteAssetReferences(&incoming, assetIDMap)

		index, collides := indexByID[incoming.ID]
		if !collides {
			indexByID[incoming.ID] = len(merged)
			merged = append(merged, incoming)
			continue
		}

		conflicts = append(conflicts, incoming.Name)
		switch strategy {
		case StrategySkip:
			// Existing profile wins; the import is dropped.
		case StrategyOverwrite:
			merged[index] = incoming
		case StrategyRename:
			regenerateProfileIdentity(&incoming)
			indexByID[incoming.ID] = len(merged)
			merged = append(merged, incoming)
		}
	}

	return merged, conflicts
}

// rewriteAssetReferences maps every spawn asset's assetId through the id
// mapping built during the asset merge.
func rewriteAssetReferences(profile *spawn.SpawnProfile, assetIDMap map[string]string) {
	for i := range profile.Spawns {
		for j := range profile.Spawns[i].Assets {
			ref := &profile.Spawns[i].Assets[j]
			if mapped, ok := assetIDMap[ref.AssetID]; ok {
				ref.AssetID = mapped
			}
		}
	}
}

// regenerateProfileIdentity assigns fresh ids to the profile, all of its
// spawns, and all of their spawn assets, then rewrites randomization-bucket
// membership so it follows the regenerated spawn-asset ids.
func regenerateProfileIdentity(profile *spawn.SpawnProfile) {
	profile.ID = spawn.NewID()
	for i := range profile.Spawns {
		sp := &profile.Spawns[i]
		sp.ID = spawn.NewID()

		spawnAssetIDMap := make(map[string]string, len(sp.Assets))
		for j := range sp.Assets {
			oldID := sp.Assets[j].ID
			sp.Assets[j].ID = spawn.NewID()
			spawnAssetIDMap[oldID] = sp.Assets[j].ID
		}
		for j := range sp.RandomizationBuckets {
			bucket := &sp.RandomizationBuckets[j]
			bucket.ID = spawn.NewID()
			for k := range bucket.Members {
				if mapped, ok := spawnAssetIDMap[bucket.Members[k].SpawnAssetID]; ok {
					bucket.Members[k].SpawnAssetID = mapped
				}
			}
		}
	}
}

// findInvalidAssetReferences scans every spawn asset in the merged profiles
// for references that no longer resolve. Dangling references are reported,
// not repaired.
func findInvalidAssetReferences(profiles []spawn.SpawnProfile, assets []spawn.MediaAsset) []string {
	known := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		known[asset.ID] = struct{}{}
	}

	var invalid []string
	for _, profile := range profiles {
		for _, sp := range profile.Spawns {
			for _, sa := range sp.Assets {
				if _, ok := known[sa.AssetID]; !ok {
					invalid = append(invalid, fmt.Sprintf(
						"profile %q spawn %q references missing asset %q",
						profile.Name, sp.Name, sa.AssetID))
				}
			}
		}
	}
	return invalid
}
