package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/event"
	coresys "github.com/shmup/server/internal/core/system"
)

const (
	waveClearDelay = 3 * time.Second
	levelGapDelay  = 5 * time.Second
)

// Campaign is the ordered sequence of levels, each a sequence of waves, plus
// the level director's progress through them. The server builds its levels
// once at startup, from DefaultCampaign or, when one is configured, from a
// Lua wave script (internal/scripting) that replaces the whole campaign;
// each match gets its own Campaign value holding those levels.
type Campaign struct {
	Levels  [][]component.Wave
	gapLeft time.Duration
	ended   bool
}

// levelDirectorSystem implements spec.md §4.2.4.
type levelDirectorSystem struct {
	k        *Kernel
	campaign *Campaign
}

func newLevelDirectorSystem(k *Kernel) *levelDirectorSystem {
	return &levelDirectorSystem{k: k, campaign: k.Campaign}
}

func (s *levelDirectorSystem) Phase() coresys.Phase { return coresys.PhaseLevelDirector }

func (s *levelDirectorSystem) Update(dt time.Duration) {
	if s.campaign == nil || s.campaign.ended {
		return
	}
	w := s.k.World
	plan := w.Level

	if plan.FinishedLevel {
		s.campaign.gapLeft -= dt
		if s.campaign.gapLeft <= 0 {
			s.advanceLevel()
		}
		return
	}

	switch plan.WaveState {
	case component.WaveBetween:
		if s.allClear() {
			plan.WaveDelayTimer += float32(dt.Seconds())
			if plan.WaveDelayTimer >= float32(waveClearDelay.Seconds()) && plan.CurrentWave < len(plan.Waves) {
				s.spawnWave(plan.Waves[plan.CurrentWave])
				plan.WaveState = component.WaveIn
			}
		} else {
			plan.WaveDelayTimer = 0
		}
	case component.WaveIn:
		if s.allClear() {
			plan.CurrentWave++
			plan.WaveDelayTimer = 0
			plan.WaveState = component.WaveBetween
			event.Emit(w.Bus, event.WaveCleared{LevelIndex: plan.LevelIndex, WaveIndex: plan.CurrentWave - 1})
			if plan.CurrentWave >= len(plan.Waves) {
				plan.FinishedLevel = true
				s.campaign.gapLeft = levelGapDelay
				event.Emit(w.Bus, event.LevelFinished{LevelIndex: plan.LevelIndex})
			}
		}
	}
}

func (s *levelDirectorSystem) allClear() bool {
	w := s.k.World
	return w.Enemies.Len() == 0 && w.Bosses.Len() == 0
}

func (s *levelDirectorSystem) spawnWave(wave component.Wave) {
	w := s.k.World
	if wave.IsBoss {
		e := w.SpawnBoss(wave.BossKind, wave.BossHP, wave.SpawnX, wave.SpawnY)
		event.Emit(w.Bus, event.BossSpawned{
			Entity: e, Kind: int(wave.BossKind), HP: wave.BossHP, X: wave.SpawnX, Y: wave.SpawnY,
		})
		return
	}
	for _, spawn := range wave.Enemies {
		for i := 0; i < spawn.Count; i++ {
			offset := float32(i) * 24
			w.SpawnEnemy(spawn.EnemyKind, spawn.SpawnX, spawn.SpawnY+offset, w.Level.LevelIndex)
		}
	}
}

func (s *levelDirectorSystem) advanceLevel() {
	w := s.k.World
	plan := w.Level
	next := plan.LevelIndex + 1
	if next >= len(s.campaign.Levels) {
		s.campaign.ended = true
		event.Emit(w.Bus, event.GameEnd{Victory: true})
		return
	}
	*plan = component.LevelPlan{
		Waves:      s.campaign.Levels[next],
		LevelIndex: next,
	}
}
