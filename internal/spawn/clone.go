package spawn

// Clone returns a deep copy of the profile. The merge engine mutates ids and
// references on imported profiles, so it always works on copies.
func (p SpawnProfile) Clone() SpawnProfile {
	clone := p
	clone.Spawns = make([]Spawn, len(p.Spawns))
	for i, sp := range p.Spawns {
		clone.Spawns[i] = sp.Clone()
	}
	return clone
}

// Clone returns a deep copy of the spawn.
func (s Spawn) Clone() Spawn {
	clone := s
	clone.Trigger = s.Trigger.Clone()
	clone.DefaultProperties = s.DefaultProperties.Clone()
	clone.Assets = make([]SpawnAsset, len(s.Assets))
	for i, sa := range s.Assets {
		clone.Assets[i] = sa.Clone()
	}
	if s.RandomizationBuckets != nil {
		clone.RandomizationBuckets = make([]RandomizationBucket, len(s.RandomizationBuckets))
		for i, bucket := range s.RandomizationBuckets {
			clone.RandomizationBuckets[i] = bucket.Clone()
		}
	}
	return clone
}

// Clone returns a deep copy of the spawn asset.
func (s SpawnAsset) Clone() SpawnAsset {
	clone := s
	clone.Overrides.Duration = cloneScalar(s.Overrides.Duration)
	clone.Overrides.Properties = s.Overrides.Properties.Clone()
	return clone
}

// Clone returns a deep copy of the trigger, including its config map.
func (t Trigger) Clone() Trigger {
	clone := t
	if t.Config != nil {
		clone.Config = make(map[string]any, len(t.Config))
		for k, v := range t.Config {
			clone.Config[k] = v
		}
	}
	return clone
}

// Clone returns a deep copy of the bucket.
func (b RandomizationBucket) Clone() RandomizationBucket {
	clone := b
	clone.N = cloneScalar(b.N)
	clone.Weighted = cloneScalar(b.Weighted)
	clone.NoImmediateRepeat = cloneScalar(b.NoImmediateRepeat)
	clone.Members = make([]BucketMember, len(b.Members))
	for i, member := range b.Members {
		clone.Members[i] = BucketMember{
			SpawnAssetID: member.SpawnAssetID,
			Weight:       cloneScalar(member.Weight),
		}
	}
	return clone
}

// Clone returns a deep copy of the properties, or nil for nil.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Volume = cloneScalar(p.Volume)
	clone.Scale = cloneScalar(p.Scale)
	clone.Loop = cloneScalar(p.Loop)
	clone.Autoplay = cloneScalar(p.Autoplay)
	clone.Muted = cloneScalar(p.Muted)
	if p.Dimensions != nil {
		d := *p.Dimensions
		clone.Dimensions = &d
	}
	if p.Position != nil {
		pos := *p.Position
		clone.Position = &pos
	}
	return &clone
}

func cloneScalar[T any](v *T) *T {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
