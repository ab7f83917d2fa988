package sim

import (
	"math/rand"
	"time"

	coresys "github.com/shmup/server/internal/core/system"
	"github.com/shmup/server/internal/render"
	"go.uber.org/zap"
)

// TickRate is the default fixed timestep (spec.md §4.2).
const TickRate = time.Second / 60

// Kernel owns the World and the ordered system Runner. Given identical
// input sequences and the same seed, two Kernels produce byte-identical
// snapshots (spec.md §8 invariant 2) — every source of randomness in the
// registered systems must come from Kernel.RNG, never wall-clock time.
type Kernel struct {
	World    *World
	Runner   *coresys.Runner
	RNG      *rand.Rand
	Log      *zap.Logger
	Server   bool // false on the client, which only runs the predicted subset
	Campaign *Campaign
	inputs   map[int32]pendingInput

	// RenderSink receives the per-tick drawable list (spec.md §6's
	// rendering-sink collaborator). Nil on a headless server: the
	// render-export system checks for nil and skips the build entirely.
	RenderSink render.Sink
}

type pendingInput struct {
	playerID int32
	state    inputSnapshot
}

type inputSnapshot struct {
	Left, Right, Up, Down bool
	Fire                  byte
}

// NewServerKernel wires every system in spec.md §4.2 pipeline order, for
// the authoritative server.
func NewServerKernel(seed int64, log *zap.Logger, campaign *Campaign) *Kernel {
	k := &Kernel{
		World:    NewWorld(),
		Runner:   coresys.NewRunner(),
		RNG:      rand.New(rand.NewSource(seed)),
		Log:      log,
		Server:   true,
		Campaign: campaign,
		inputs:   make(map[int32]pendingInput),
	}
	if campaign != nil && len(campaign.Levels) > 0 {
		k.World.Level.Waves = campaign.Levels[0]
	}
	k.registerServerSystems()
	return k
}

// NewClientKernel wires only the prediction subset (movement + physics),
// matching spec.md §4.2's "the client runs only the italicized ones".
func NewClientKernel(log *zap.Logger) *Kernel {
	k := &Kernel{
		World:  NewWorld(),
		Runner: coresys.NewRunner(),
		RNG:    rand.New(rand.NewSource(1)),
		Log:    log,
		Server: false,
		inputs: make(map[int32]pendingInput),
	}
	k.Runner.Register(newApplyInputSystem(k))
	k.Runner.Register(newPlayerMovementSystem(k))
	k.Runner.Register(newPhysicsSystem(k))
	return k
}

func (k *Kernel) registerServerSystems() {
	k.Runner.Register(newApplyInputSystem(k))
	k.Runner.Register(newPlayerMovementSystem(k))
	k.Runner.Register(newForceSystem(k))
	k.Runner.Register(newEnemyAISystem(k))
	k.Runner.Register(newBossAISystem(k))
	k.Runner.Register(newBossPartSystem(k))
	k.Runner.Register(newPhysicsSystem(k))
	k.Runner.Register(newWeaponSystem(k))
	k.Runner.Register(newProjectileLifetimeSystem(k))
	k.Runner.Register(newCollisionSystem(k))
	k.Runner.Register(newTilemapCollisionSystem(k))
	k.Runner.Register(newBoundsSystem(k))
	k.Runner.Register(newLevelDirectorSystem(k))
	k.Runner.Register(newSnapshotSystem(k))
	k.Runner.Register(newRenderExportSystem(k))
	k.Runner.Register(newCleanupSystem(k))
}

// QueueInput stores the latest decoded InputState for playerID, overwriting
// any input queued earlier this tick — "at most one input per player per
// tick (latest wins)" (spec.md §4.2 step 1).
func (k *Kernel) QueueInput(playerID int32, left, right, up, down bool, fire byte) {
	k.inputs[playerID] = pendingInput{
		playerID: playerID,
		state:    inputSnapshot{Left: left, Right: right, Up: up, Down: down, Fire: fire},
	}
}

// Tick advances the simulation by exactly one fixed step.
func (k *Kernel) Tick() {
	k.World.Bus.SwapBuffers()
	k.Runner.Tick(TickRate)
	k.World.Bus.DispatchAll()
}
