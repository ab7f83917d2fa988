package sim

import (
	"testing"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	"go.uber.org/zap"
)

// tickUntil drives the kernel forward up to maxTicks times, stopping as
// soon as cond reports true.
func tickUntil(k *Kernel, maxTicks int, cond func() bool) bool {
	for i := 0; i < maxTicks; i++ {
		if cond() {
			return true
		}
		k.Tick()
	}
	return cond()
}

func killAllEnemies(w *World) {
	var ids []ecs.Entity
	w.Enemies.Each(func(e ecs.Entity, _ *component.Enemy) { ids = append(ids, e) })
	for _, e := range ids {
		w.Kill(e)
	}
}

func killAllBosses(w *World) {
	var ids []ecs.Entity
	w.Bosses.Each(func(e ecs.Entity, _ *component.Boss) { ids = append(ids, e) })
	for _, e := range ids {
		w.Kill(e)
	}
}

// secondsToTicks converts a wall-clock duration, expressed as TickRate
// multiples, to a tick count with headroom for the accumulating float sum.
const ticksPerClearDelay = int(waveClearDelay/TickRate) + 2
const ticksPerLevelGap = int(levelGapDelay/TickRate) + 2

func TestLevelDirectorSpawnsFirstWaveAfterClearDelay(t *testing.T) {
	k := NewServerKernel(1, zap.NewNop(), DefaultCampaign())

	ok := tickUntil(k, ticksPerClearDelay, func() bool {
		return k.World.Level.WaveState == component.WaveIn
	})
	if !ok {
		t.Fatalf("wave never transitioned to WaveIn within %d ticks", ticksPerClearDelay)
	}
	if got := k.World.Enemies.Len(); got != 7 {
		t.Fatalf("first wave spawned %d enemies, want 7 (4 basic + 3 zigzag)", got)
	}
}

func TestLevelDirectorAdvancesWaveOnceCleared(t *testing.T) {
	k := NewServerKernel(1, zap.NewNop(), DefaultCampaign())
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Level.WaveState == component.WaveIn })

	killAllEnemies(k.World)
	k.Tick()

	if k.World.Level.CurrentWave != 1 {
		t.Fatalf("CurrentWave = %d, want 1 after clearing wave 0", k.World.Level.CurrentWave)
	}
	if k.World.Level.WaveState != component.WaveBetween {
		t.Fatalf("WaveState = %v, want WaveBetween after a wave clears", k.World.Level.WaveState)
	}
}

func TestLevelDirectorSpawnsBossOnFinalWave(t *testing.T) {
	k := NewServerKernel(1, zap.NewNop(), DefaultCampaign())

	// Wave 0 -> clear -> wave 1 -> clear -> boss wave.
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Level.WaveState == component.WaveIn })
	killAllEnemies(k.World)
	k.Tick()
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Level.WaveState == component.WaveIn })
	killAllEnemies(k.World)
	k.Tick()
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Bosses.Len() > 0 })

	if k.World.Bosses.Len() != 1 {
		t.Fatalf("boss wave spawned %d bosses, want 1", k.World.Bosses.Len())
	}
	var hp int32
	k.World.Bosses.Each(func(_ ecs.Entity, b *component.Boss) { hp = b.HP })
	if hp != 300 {
		t.Fatalf("boss HP = %d, want 300 (BigShip)", hp)
	}
}

func TestLevelDirectorAdvancesLevelAfterBossDefeated(t *testing.T) {
	k := NewServerKernel(1, zap.NewNop(), DefaultCampaign())
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Level.WaveState == component.WaveIn })
	killAllEnemies(k.World)
	k.Tick()
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Level.WaveState == component.WaveIn })
	killAllEnemies(k.World)
	k.Tick()
	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Bosses.Len() > 0 })
	killAllBosses(k.World)

	ok := tickUntil(k, ticksPerLevelGap, func() bool { return k.World.Level.LevelIndex == 1 })
	if !ok {
		t.Fatalf("level never advanced to index 1 within %d ticks", ticksPerLevelGap)
	}
	if k.World.Level.CurrentWave != 0 {
		t.Fatalf("CurrentWave = %d, want reset to 0 on a fresh level", k.World.Level.CurrentWave)
	}
}

func TestLevelDirectorEndsCampaignAfterFinalLevel(t *testing.T) {
	campaign := &Campaign{Levels: [][]component.Wave{
		{{IsBoss: true, BossKind: component.BossBigShip, BossHP: 10, SpawnX: 1, SpawnY: 1}},
	}}
	k := NewServerKernel(1, zap.NewNop(), campaign)

	tickUntil(k, ticksPerClearDelay, func() bool { return k.World.Bosses.Len() > 0 })
	killAllBosses(k.World)
	tickUntil(k, ticksPerLevelGap, func() bool { return campaign.ended })

	if !campaign.ended {
		t.Fatalf("campaign should be marked ended after its only level's boss is defeated")
	}
}
