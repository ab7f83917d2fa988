package component

import "github.com/shmup/server/internal/core/ecs"

// Player is authoritative only on the server.
type Player struct {
	PlayerID            int32
	Speed               float32
	HP, MaxHP           int32
	IsAlive             bool
	InvincibilityTimer  float32
	WeaponHandle        ecs.Entity
	Score               int32
}

// FireMode is the InputState.Fire tri-state.
type FireMode byte

const (
	FireNone FireMode = iota
	FireNormal
	FireCharge
)

// InputState is server-authoritative; clients send edges (transitions),
// the server holds the current level.
type InputState struct {
	Left, Right, Up, Down bool
	Fire                  FireMode
}
