// Package match binds one in-progress lobby to a running Simulation
// Kernel: it owns the per-match goroutine that ticks the kernel at a fixed
// 60 Hz budget, relays PLAYER_INPUT/AUTH_UDP from the transport server into
// the kernel, and fans the kernel's GameState/BOSS_SPAWN/BOSS_UPDATE/
// ENEMY_HIT/FORCE_STATE broadcasts back out over UDP (spec.md §5's "Game
// tick thread" context).
package match

import (
	"sync"

	"github.com/shmup/server/internal/clock"
	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	"github.com/shmup/server/internal/core/event"
	"github.com/shmup/server/internal/lobbynet"
	"github.com/shmup/server/internal/protocol"
	"github.com/shmup/server/internal/sim"
	"github.com/shmup/server/internal/transport"
	"go.uber.org/zap"
)

// Member is one participating player, known by both its stable PlayerID
// (wire-level identity) and control-channel ConnID (used to deliver
// GAME_START over TCP). GAME_END is not sent on this connection: it goes
// out over the UDP reliable channel.
type Member struct {
	PlayerID int32
	ConnID   uint64
	Username string
}

// ScoreRecorder persists one player's final result; nil disables
// persistence (spec.md §6: "absence is tolerated").
type ScoreRecorder func(playerID int32, username string, score int32, levelReached int, victory bool)

// Match owns one running Kernel plus the glue feeding it from and
// broadcasting it to the UDP transport.
type Match struct {
	Kernel  *sim.Kernel
	udp     *transport.Server
	log     *zap.Logger
	members []Member

	// Clock drives Run's tick loop (spec.md §6's clock-source collaborator).
	// Left nil until Run starts, which then defaults it to clock.Real at
	// sim.TickRate; set it beforehand (e.g. to a clock.Manual) to drive the
	// loop deterministically from a test instead of sleeping on wall time.
	Clock clock.Source

	mu           sync.Mutex
	addrByPlayer map[int32]string
	playerByAddr map[string]int32

	recordScore ScoreRecorder
	onEnd       func()

	stopCh chan struct{}
}

// New constructs a Match for lobby's members, spawning each as a player
// entity at the given arena spawn point (spec.md §8 scenario 1's
// GAME_START{spawn, scrollSpeed}).
func New(seed int64, campaign *sim.Campaign, udp *transport.Server, log *zap.Logger, members []Member, spawnX, spawnY float32, recordScore ScoreRecorder) *Match {
	k := sim.NewServerKernel(seed, log, campaign)
	m := &Match{
		Kernel:       k,
		udp:          udp,
		log:          log,
		members:      members,
		addrByPlayer: make(map[int32]string),
		playerByAddr: make(map[string]int32),
		recordScore:  recordScore,
		stopCh:       make(chan struct{}),
	}
	for i, mem := range members {
		k.World.SpawnPlayer(mem.PlayerID, spawnX+float32(i)*20, spawnY+float32(i)*20)
	}
	event.Subscribe(k.World.Bus, m.onDeath)
	event.Subscribe(k.World.Bus, m.onBossSpawned)
	event.Subscribe(k.World.Bus, m.onEnemyHit)
	event.Subscribe(k.World.Bus, m.onGameEnd)
	return m
}

// AuthUDP binds a UDP source address to a known player, enabling the match
// to route PLAYER_INPUT from that address and to broadcast snapshots to it
// (spec.md §4.5's AUTH_UDP handshake).
func (m *Match) AuthUDP(playerID int32, addr string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addrByPlayer[playerID] = addr
	m.playerByAddr[addr] = playerID
}

// HandleInput applies a decoded PLAYER_INPUT arriving from addr.
func (m *Match) HandleInput(addr string, msg protocol.PlayerInputMsg) {
	m.mu.Lock()
	playerID, ok := m.playerByAddr[addr]
	m.mu.Unlock()
	if !ok {
		return
	}
	m.Kernel.QueueInput(playerID, msg.Left, msg.Right, msg.Up, msg.Down, msg.Fire)
}

// Run drives the kernel at a fixed tick budget until Stop is called or
// GameEnd fires, broadcasting a GameState delta after every tick (spec.md
// §5's "Game tick thread... Runs at a fixed 60 Hz budget: sleep until next
// tick boundary; if overrun, drop the sleep but do not accumulate lag
// beyond one tick").
func (m *Match) Run() {
	if m.Clock == nil {
		m.Clock = clock.NewReal(sim.TickRate)
	}
	defer m.Clock.Stop()
	tick := 0
	for {
		select {
		case <-m.stopCh:
			return
		case <-m.Clock.C():
			m.Kernel.Tick()
			m.broadcastGameState()
			tick++
			if tick%30 == 0 { // ~2x/sec, independent of the GameState delta cadence
				m.broadcastBossUpdates()
				m.broadcastForceStates()
			}
		}
	}
}

// Stop ends the match's tick loop and kills every member's entity so the
// kernel can be garbage collected (spec.md §5's cooperative-cancellation
// model: "In-flight ticks complete; no mid-tick cancellation").
func (m *Match) Stop() {
	select {
	case <-m.stopCh:
	default:
		close(m.stopCh)
	}
	for _, mem := range m.members {
		m.Kernel.World.KillPlayer(mem.PlayerID)
	}
}

func (m *Match) broadcastGameState() {
	snap, ok := m.latestSnapshot()
	if !ok {
		return
	}
	m.mu.Lock()
	addrs := make([]string, 0, len(m.addrByPlayer))
	for _, addr := range m.addrByPlayer {
		addrs = append(addrs, addr)
	}
	m.mu.Unlock()
	for _, addr := range addrs {
		if err := m.udp.SendUnreliable(addr, snap); err != nil {
			m.log.Debug("game state send failed", zap.String("addr", addr), zap.Error(err))
		}
	}
}

// broadcastBossUpdates sends a BOSS_UPDATE for every live boss. Bosses ride
// their own message rather than the GameState sub-lists (spec.md §4.2.5:
// "Bosses and boss parts ride the separate BOSS_SPAWN/BOSS_UPDATE
// messages").
func (m *Match) broadcastBossUpdates() {
	w := m.Kernel.World
	w.Bosses.Each(func(e ecs.Entity, b *component.Boss) {
		t, ok := w.Transforms.Get(e)
		if !ok {
			return
		}
		m.broadcastReliable(protocol.BossUpdateMsg{
			EntityID: uint32(e), Phase: uint8(b.Phase), HP: b.HP, X: t.X, Y: t.Y,
		})
	})
}

// broadcastForceStates sends a FORCE_STATE for every player's satellite
// drone.
func (m *Match) broadcastForceStates() {
	w := m.Kernel.World
	ecs.Each2(w.Forces, w.Transforms, func(_ ecs.Entity, f *component.Force, t *component.Transform) {
		owner, ok := w.Players.Get(f.OwnerPlayer)
		if !ok {
			return
		}
		m.broadcastReliable(protocol.ForceStateMsg{
			OwnerPlayerID: owner.PlayerID, State: uint8(f.State), X: t.X, Y: t.Y,
		})
	})
}

// latestSnapshot pulls the GameState the kernel's snapshot system built
// this tick.
func (m *Match) latestSnapshot() (sim.GameState, bool) {
	for _, sys := range m.Kernel.Runner.Systems() {
		if snap, ok := sys.(interface{ GameState() sim.GameState }); ok {
			return snap.GameState(), true
		}
	}
	return sim.GameState{}, false
}

func (m *Match) onDeath(ev event.Death) {
	if ev.Category != event.CategoryPlayer {
		return
	}
	m.log.Info("player died", zap.Uint32("entity", uint32(ev.Entity)))
}

func (m *Match) onBossSpawned(ev event.BossSpawned) {
	m.broadcastReliable(protocol.BossSpawnMsg{
		EntityID: uint32(ev.Entity), Kind: uint8(ev.Kind), HP: ev.HP, X: ev.X, Y: ev.Y,
	})
}

func (m *Match) onEnemyHit(ev event.EnemyHit) {
	m.broadcastReliable(protocol.EnemyHitMsg{
		EntityID: uint32(ev.Entity), DamageDone: ev.DamageDone, Remaining: ev.Remaining,
	})
}

func (m *Match) onGameEnd(ev event.GameEnd) {
	m.finalizeScores(ev.Victory)
	if m.onEnd != nil {
		m.onEnd()
	}
}

// OnEnd registers a callback fired once GameEnd has been handled, so the
// caller can transition members back to Authenticated and tear down the
// match's goroutine (spec.md §8 scenario 5's terminal GAME_END).
func (m *Match) OnEnd(fn func()) { m.onEnd = fn }

func (m *Match) finalizeScores(victory bool) {
	w := m.Kernel.World
	for _, mem := range m.members {
		e, ok := w.PlayerByID[mem.PlayerID]
		score := int32(0)
		if ok {
			if p, ok := w.Players.Get(e); ok {
				score = p.Score
			}
		}
		if m.recordScore != nil {
			m.recordScore(mem.PlayerID, mem.Username, score, w.Level.LevelIndex, victory)
		}
		m.broadcastReliable(protocol.GameEndMsg{Victory: victory, FinalScore: score})
	}
}

func (m *Match) broadcastReliable(msg any) {
	m.mu.Lock()
	addrs := make([]string, 0, len(m.addrByPlayer))
	for _, addr := range m.addrByPlayer {
		addrs = append(addrs, addr)
	}
	m.mu.Unlock()
	for _, addr := range addrs {
		if err := m.udp.SendReliable(addr, msg); err != nil {
			m.log.Debug("reliable send failed", zap.String("addr", addr), zap.Error(err))
		}
	}
}

// KillPlayerOnTimeout removes a timed-out peer's entity mid-match (spec.md
// §7's PeerTimeout: "if in-game, the peer's entity is killed and a slot
// kept for reconnection until the match ends").
func (m *Match) KillPlayerOnTimeout(playerID int32) {
	m.Kernel.World.KillPlayer(playerID)
	m.mu.Lock()
	if addr, ok := m.addrByPlayer[playerID]; ok {
		delete(m.playerByAddr, addr)
		delete(m.addrByPlayer, playerID)
	}
	m.mu.Unlock()
}

// BuildGameStart produces the GAME_START control message for a lobby about
// to transition InGame (spec.md §8 scenario 1).
func BuildGameStart(seed int64, spawnX, spawnY, scrollSpeed float32) protocol.GameStartMsg {
	return protocol.GameStartMsg{Seed: seed, SpawnX: spawnX, SpawnY: spawnY, ScrollSpeed: scrollSpeed}
}

// SendGameStart pushes the GAME_START message to every member over their
// control-channel connection.
func SendGameStart(conns map[uint64]*lobbynet.Conn, members []Member, msg protocol.GameStartMsg) {
	for _, mem := range members {
		if c, ok := conns[mem.ConnID]; ok {
			c.Send(msg)
		}
	}
}
