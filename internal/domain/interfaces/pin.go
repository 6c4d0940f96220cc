package interfaces

// PinStore is the shared wallet PIN. The workflow takes it as a
// collaborator so tests can swap it; Set backs the reset flow.
type PinStore interface {
	Current() string
	Set(pin string) error
}
