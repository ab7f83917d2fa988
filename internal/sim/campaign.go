package sim

import "github.com/shmup/server/internal/component"

// DefaultCampaign is the compiled-in fallback used when no Lua wave script
// is configured (spec.md §4.2.4 / §8 scenario 5: "Level 0 has two waves
// then a boss wave {BigShip, hp=300}").
func DefaultCampaign() *Campaign {
	return &Campaign{
		Levels: [][]component.Wave{
			{
				{Enemies: []component.EnemySpawn{
					{EnemyKind: component.EnemyBasic, Count: 4, SpawnX: 460, SpawnY: 100},
					{EnemyKind: component.EnemyZigzag, Count: 3, SpawnX: 460, SpawnY: 300},
				}},
				{Enemies: []component.EnemySpawn{
					{EnemyKind: component.EnemyChase, Count: 3, SpawnX: 460, SpawnY: 150},
					{EnemyKind: component.EnemyMiniGreen, Count: 2, SpawnX: 460, SpawnY: 350},
				}},
				{IsBoss: true, BossKind: component.BossBigShip, BossHP: 300, SpawnX: 420, SpawnY: 240},
			},
			{
				{Enemies: []component.EnemySpawn{
					{EnemyKind: component.EnemySpinner, Count: 5, SpawnX: 460, SpawnY: 120},
				}},
				{Enemies: []component.EnemySpawn{
					{EnemyKind: component.EnemyZigzag, Count: 4, SpawnX: 460, SpawnY: 200},
					{EnemyKind: component.EnemyChase, Count: 4, SpawnX: 460, SpawnY: 320},
				}},
				{IsBoss: true, BossKind: component.BossSnake, BossHP: 450, SpawnX: 420, SpawnY: 240},
			},
		},
	}
}
