package shared

// AggregateRoot is the consistency boundary loaded and saved as a unit.
// Events recorded by the aggregate stay buffered until PullEvents drains
// them after a successful save.
type AggregateRoot interface {
	ID() string

	// Version is used for optimistic locking by stores that support it
	Version() int

	// PullEvents returns and clears the pending events
	PullEvents() []DomainEvent
}

// Entity has identity that persists across mutation.
type Entity interface {
	ID() string
}
