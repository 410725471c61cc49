package orchestrators

// Notifier is the presentation-layer collaborator. Both signals are
// fire-and-forget with no payload, intentionally coarse-grained: dependent
// views re-fetch rather than patch.
type Notifier interface {
	// TopologyChanged fires after any rename or flag transition.
	TopologyChanged()

	// DataChanged fires after any status or fee mutation.
	DataChanged()
}

// NoopNotifier satisfies Notifier for callers with no views to refresh.
type NoopNotifier struct{}

// TopologyChanged implements Notifier.
func (NoopNotifier) TopologyChanged() {}

// DataChanged implements Notifier.
func (NoopNotifier) DataChanged() {}
