package config

import "sync"

// ChangeType classifies a published Change.
type ChangeType int

const (
	// ChangeReload indicates the config file was re-parsed successfully.
	ChangeReload ChangeType = iota
	// ChangeError indicates a reload was attempted but failed to parse.
	ChangeError
)

// Change is published to every subscriber on a config reload or
// reload failure.
type Change struct {
	Type   ChangeType
	Config *Config // non-nil only for ChangeReload
	Err    error   // non-nil only for ChangeError
}

// Observer receives published changes.
type Observer func(Change)

// Notifier is a small observer-pattern broadcaster: components that
// care about live config reload (the keymap registry, the LSP
// supervisor, the renderer's theme) subscribe once and are called back
// on every subsequent reload.
type Notifier struct {
	mu        sync.RWMutex
	nextID    uint64
	observers map[uint64]Observer
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{observers: make(map[uint64]Observer)}
}

// Subscription lets a caller stop receiving further changes.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier == nil {
		return
	}
	s.notifier.unsubscribe(s.id)
	s.notifier = nil
}

// Subscribe registers observer and returns a Subscription that can
// later cancel it.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.observers[id] = observer
	return &Subscription{id: id, notifier: n}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// Publish calls every current observer with change. Observers are
// snapshotted under the lock then called outside it, so an observer
// that subscribes or unsubscribes during a callback can't deadlock or
// corrupt the map.
func (n *Notifier) Publish(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}
