// Package audio formalizes the "out of scope, but the core must supply"
// audio-playback collaborator (spec.md §6): asset loading and mixing stay
// entirely outside this module. Only the types are declared here: no code in
// this module emits Cue values or calls a Sink; a client wires a concrete Sink.
package audio

// Cue names one playback request.
type Cue struct {
	Name string
	Bus  uint8 // mixer bus / priority class
}

// Sink plays a Cue. The core never calls a Sink; unlike render.Sink, which
// the kernel's render-export system calls each tick, nothing here reaches it.
type Sink interface {
	Play(cue Cue)
}
