package spawn

// TriggerType identifies how a spawn fires. The config map's shape depends
// on the type and is validated for structural presence only; unknown types
// are carried opaquely so configurations from newer builds survive a round
// trip.
type TriggerType string

const (
	TriggerManual       TriggerType = "manual"
	TriggerTimeDaily    TriggerType = "time.daily"
	TriggerTimeWeekly   TriggerType = "time.weekly"
	TriggerChannelPoint TriggerType = "channel.point"
	TriggerSubscription TriggerType = "subscription"
	TriggerGiftSub      TriggerType = "gift.sub"
	TriggerCheer        TriggerType = "cheer"
	TriggerFollow       TriggerType = "follow"
	TriggerChatMessage  TriggerType = "chat.message"
)

var knownTriggerTypes = map[TriggerType]struct{}{
	TriggerManual:       {},
	TriggerTimeDaily:    {},
	TriggerTimeWeekly:   {},
	TriggerChannelPoint: {},
	TriggerSubscription: {},
	TriggerGiftSub:      {},
	TriggerCheer:        {},
	TriggerFollow:       {},
	TriggerChatMessage:  {},
}

// KnownTriggerType reports whether t is a trigger type this build understands.
func KnownTriggerType(t TriggerType) bool {
	_, ok := knownTriggerTypes[t]
	return ok
}

// Trigger describes when a spawn fires.
type Trigger struct {
	Type    TriggerType
	Enabled bool
	Config  map[string]any
}

// ManualTrigger returns the default trigger for newly created spawns.
func ManualTrigger() Trigger {
	return Trigger{Type: TriggerManual, Enabled: true, Config: map[string]any{}}
}
