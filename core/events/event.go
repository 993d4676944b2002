package events

// Event is a structured record of one committed ledger change.
type Event interface {
	EventType() string
}

// Emitter forwards events to whatever sink the host wires in. The engine
// emits after validation succeeds, so a sink only ever sees applied changes.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter discards everything. It stands in when no sink is configured.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Event) {}
