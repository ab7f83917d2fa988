package protocol

import (
	"reflect"
	"testing"

	"github.com/shmup/server/internal/core/ecs"
	"github.com/shmup/server/internal/sim"
)

// roundTrip asserts Decode(Encode(msg)) reproduces msg field-for-field
// (spec.md §8's codec invariant).
func roundTrip(t *testing.T, op Opcode, msg any) {
	t.Helper()
	gotOp, payload := Encode(msg)
	if gotOp != op {
		t.Fatalf("Encode(%T) opcode = %v, want %v", msg, gotOp, op)
	}
	decoded, err := Decode(op, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, msg) {
		t.Fatalf("round trip mismatch:\n  sent: %+v\n  got:  %+v", msg, decoded)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	roundTrip(t, OpLoginRequest, LoginRequest{Username: "alice", Password: "hunter2"})
	roundTrip(t, OpLoginResponse, LoginResponse{OK: true, PlayerID: 7})
	roundTrip(t, OpLoginResponse, LoginResponse{OK: false, Reason: "invalid credentials"})
	roundTrip(t, OpLobbyCreate, LobbyCreate{Name: "room", Password: "", MaxPlayers: 2, Difficulty: 1})
	roundTrip(t, OpLobbyJoinRequest, LobbyJoinRequest{LobbyID: 3, Password: "secret"})
	roundTrip(t, OpLobbyJoinResponse, LobbyJoinResponse{OK: true, LobbyID: 3})
	roundTrip(t, OpLobbyListRequest, LobbyListRequest{})
	roundTrip(t, OpLobbyListResponse, LobbyListResponse{Lobbies: []LobbySummary{
		{LobbyID: 1, Name: "a", PlayerCount: 1, MaxPlayers: 4, HasPassword: false},
		{LobbyID: 2, Name: "b", PlayerCount: 2, MaxPlayers: 4, HasPassword: true},
	}})
	roundTrip(t, OpPlayerReady, PlayerReadyMsg{Ready: true})
	roundTrip(t, OpLobbyUpdate, LobbyUpdate{LobbyID: 5, Members: []LobbyMember{
		{PlayerID: 1, Name: "alice", Ready: true, IsHost: true},
		{PlayerID: 2, Name: "bob", Ready: false, IsHost: false},
	}})
	roundTrip(t, OpLobbyLeave, LobbyLeave{})
	roundTrip(t, OpLobbyStart, LobbyStart{CountdownSeconds: 3})
	roundTrip(t, OpChat, ChatMsg{From: "alice", Text: "gg"})
	roundTrip(t, OpLobbyKick, LobbyKick{PlayerID: 4, Reason: "afk"})
	roundTrip(t, OpGameStart, GameStartMsg{Seed: 1234567890123, SpawnX: 200, SpawnY: 300, ScrollSpeed: 50})
	roundTrip(t, OpGameStart, GameStartMsg{Seed: -1, SpawnX: 0, SpawnY: 0, ScrollSpeed: 0})
	roundTrip(t, OpGameEnd, GameEndMsg{Victory: true, FinalScore: 99999})
	roundTrip(t, OpClientLeave, ClientLeaveMsg{})
	roundTrip(t, OpError, ErrorMsg{Code: 1, Message: "must be logged in"})
	roundTrip(t, OpPlayerInput, PlayerInputMsg{Tick: 42, Left: true, Right: false, Up: true, Down: false, Fire: 1})
	roundTrip(t, OpAuthUDP, AuthUDPMsg{PlayerID: 9, Token: "tok"})
	roundTrip(t, OpBossSpawn, BossSpawnMsg{EntityID: 100, Kind: 1, HP: 300, X: 420, Y: 240})
	roundTrip(t, OpBossUpdate, BossUpdateMsg{EntityID: 100, Phase: 2, HP: 150, X: 400, Y: 250})
	roundTrip(t, OpEnemyHit, EnemyHitMsg{EntityID: 50, DamageDone: 10, Remaining: 20})
	roundTrip(t, OpForceState, ForceStateMsg{OwnerPlayerID: 1, State: 0, X: 224, Y: 300})
}

func TestCodecRoundTripGameState(t *testing.T) {
	state := sim.GameState{
		Tick: 99,
		Players: []sim.PlayerRecord{
			{ID: ecs.Entity(1), Mask: sim.MaskPosX | sim.MaskPosY | sim.MaskHP, PosX: 1, PosY: 2, HP: 100},
			{ID: ecs.Entity(2), Mask: sim.MaskDelete},
		},
		Enemies: []sim.EnemyRecord{
			{ID: ecs.Entity(10), Mask: sim.MaskPosX | sim.MaskHP, PosX: 50, HP: 30},
		},
		Projectiles: []sim.ProjectileRecord{
			{ID: ecs.Entity(20), Mask: sim.MaskPosX | sim.MaskPosY, PosX: 5, PosY: 6},
		},
	}
	roundTrip(t, OpGameState, state)
}

func TestDecodeUnknownOpcode(t *testing.T) {
	if _, err := Decode(Opcode(0xFF), nil); err == nil {
		t.Fatalf("Decode with an unknown opcode should return an error")
	}
}

func TestOpcodeTCPControlSplit(t *testing.T) {
	if !OpLoginRequest.TCPControl() {
		t.Fatalf("OpLoginRequest should be a TCP control opcode")
	}
	if OpPlayerInput.TCPControl() {
		t.Fatalf("OpPlayerInput should not be a TCP control opcode")
	}
	if OpGameState.TCPControl() {
		t.Fatalf("OpGameState should not be a TCP control opcode")
	}
}
