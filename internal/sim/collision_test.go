package sim

import (
	"testing"

	"github.com/shmup/server/internal/component"
	coresys "github.com/shmup/server/internal/core/system"
	"go.uber.org/zap"
)

func TestCollisionDamagesPlayerAndEnemyOnOverlap(t *testing.T) {
	k := NewServerKernel(1, zap.NewNop(), nil)
	playerEntity := k.World.SpawnPlayer(1, 200, 200)
	enemyEntity := k.World.SpawnEnemy(component.EnemyBasic, 200, 200, 0)

	k.Runner.TickPhase(coresys.PhaseCollision, TickRate)

	player, _ := k.World.Players.Get(playerEntity)
	enemy, _ := k.World.Enemies.Get(enemyEntity)
	if player.HP != 90 {
		t.Fatalf("player HP = %d, want 90 after one overlapping tick", player.HP)
	}
	if enemy.HP != 15 {
		t.Fatalf("enemy HP = %d, want 15 (20 base - 5)", enemy.HP)
	}
}

func TestCollisionNoDamageWhenFarApart(t *testing.T) {
	k := NewServerKernel(1, zap.NewNop(), nil)
	playerEntity := k.World.SpawnPlayer(1, 0, 0)
	enemyEntity := k.World.SpawnEnemy(component.EnemyBasic, 1000, 1000, 0)

	k.Runner.TickPhase(coresys.PhaseCollision, TickRate)

	player, _ := k.World.Players.Get(playerEntity)
	enemy, _ := k.World.Enemies.Get(enemyEntity)
	if player.HP != 100 {
		t.Fatalf("player HP = %d, want untouched 100", player.HP)
	}
	if enemy.HP != 20 {
		t.Fatalf("enemy HP = %d, want untouched 20", enemy.HP)
	}
}
