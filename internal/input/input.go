// Package input formalizes the "out of scope, but the core must supply"
// input-state pull interface (spec.md §6): keyboard/gamepad polling and
// key-binding config stay entirely outside this module. A client's main
// loop polls Source once per frame and packs the result into a
// protocol.PlayerInputMsg before it ever reaches the core.
package input

// State mirrors the fields the core cares about — protocol.PlayerInputMsg
// without the tick stamp, which the client attaches on send.
type State struct {
	Left, Right, Up, Down bool
	Fire                  byte
}

// Source is polled once per client frame. The core never calls into a
// concrete Source; only a client entrypoint does.
type Source interface {
	Poll() State
}
