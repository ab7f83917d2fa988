// Package scripting loads an optional Lua wave script describing a
// campaign's levels and waves, letting level design live outside the Go
// binary (spec.md §4.2.4's difficulty/wave data, supplemented per
// SPEC_FULL.md's domain stack).
package scripting

import (
	"fmt"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/sim"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var enemyKinds = map[string]component.EnemyKind{
	"basic":     component.EnemyBasic,
	"zigzag":    component.EnemyZigzag,
	"chase":     component.EnemyChase,
	"minigreen": component.EnemyMiniGreen,
	"spinner":   component.EnemySpinner,
}

var bossKinds = map[string]component.BossKind{
	"bigship":    component.BossBigShip,
	"snake":      component.BossSnake,
	"bydoeye":    component.BossBydoEye,
	"battleship": component.BossBattleship,
	"finalboss":  component.BossFinalBoss,
}

// Engine wraps a single gopher-lua VM. The server creates one at startup to
// evaluate the configured wave script and closes it when the server exits.
// Not used by the tick loop.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{vm: lua.NewState(), log: log}
}

func (e *Engine) Close() { e.vm.Close() }

// LoadCampaign runs the script at path, which must assign a global table
// named `campaign`: an array of levels, each `{waves = {...}}`. Each wave is
// either `{enemies = {{kind=..., count=..., x=..., y=...}, ...}}` or
// `{boss=true, bossKind=..., bossHP=..., x=..., y=...}`.
func (e *Engine) LoadCampaign(path string) (*sim.Campaign, error) {
	if err := e.vm.DoFile(path); err != nil {
		return nil, fmt.Errorf("scripting: load %s: %w", path, err)
	}
	campaignVal := e.vm.GetGlobal("campaign")
	campaignTable, ok := campaignVal.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("scripting: %s did not set a `campaign` table", path)
	}

	var campaign sim.Campaign
	var err error
	campaignTable.ForEach(func(_, levelVal lua.LValue) {
		if err != nil {
			return
		}
		levelTable, ok := levelVal.(*lua.LTable)
		if !ok {
			return
		}
		waves, wErr := e.parseWaves(levelTable)
		if wErr != nil {
			err = wErr
			return
		}
		campaign.Levels = append(campaign.Levels, waves)
	})
	if err != nil {
		return nil, err
	}
	if len(campaign.Levels) == 0 {
		return nil, fmt.Errorf("scripting: %s produced an empty campaign", path)
	}
	return &campaign, nil
}

func (e *Engine) parseWaves(levelTable *lua.LTable) ([]component.Wave, error) {
	wavesVal := levelTable.RawGetString("waves")
	wavesTable, ok := wavesVal.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("scripting: level missing `waves` array")
	}
	var waves []component.Wave
	var err error
	wavesTable.ForEach(func(_, waveVal lua.LValue) {
		if err != nil {
			return
		}
		waveTable, ok := waveVal.(*lua.LTable)
		if !ok {
			return
		}
		wave, wErr := e.parseWave(waveTable)
		if wErr != nil {
			err = wErr
			return
		}
		waves = append(waves, wave)
	})
	return waves, err
}

func (e *Engine) parseWave(t *lua.LTable) (component.Wave, error) {
	if lua.LVAsBool(t.RawGetString("boss")) {
		kindName := lua.LVAsString(t.RawGetString("bossKind"))
		kind, ok := bossKinds[kindName]
		if !ok {
			return component.Wave{}, fmt.Errorf("scripting: unknown bossKind %q", kindName)
		}
		return component.Wave{
			IsBoss:   true,
			BossKind: kind,
			BossHP:   int32(lua.LVAsNumber(t.RawGetString("bossHP"))),
			SpawnX:   float32(lua.LVAsNumber(t.RawGetString("x"))),
			SpawnY:   float32(lua.LVAsNumber(t.RawGetString("y"))),
		}, nil
	}

	enemiesVal := t.RawGetString("enemies")
	enemiesTable, ok := enemiesVal.(*lua.LTable)
	if !ok {
		return component.Wave{}, fmt.Errorf("scripting: wave missing `enemies` array")
	}
	var spawns []component.EnemySpawn
	var err error
	enemiesTable.ForEach(func(_, spawnVal lua.LValue) {
		if err != nil {
			return
		}
		spawnTable, ok := spawnVal.(*lua.LTable)
		if !ok {
			return
		}
		kindName := lua.LVAsString(spawnTable.RawGetString("kind"))
		kind, ok := enemyKinds[kindName]
		if !ok {
			err = fmt.Errorf("scripting: unknown enemy kind %q", kindName)
			return
		}
		spawns = append(spawns, component.EnemySpawn{
			EnemyKind: kind,
			Count:     int(lua.LVAsNumber(spawnTable.RawGetString("count"))),
			SpawnX:    float32(lua.LVAsNumber(spawnTable.RawGetString("x"))),
			SpawnY:    float32(lua.LVAsNumber(spawnTable.RawGetString("y"))),
		})
	})
	if err != nil {
		return component.Wave{}, err
	}
	return component.Wave{Enemies: spawns}, nil
}
