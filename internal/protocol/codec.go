package protocol

import (
	"fmt"

	"github.com/shmup/server/internal/sim"
)

// Encode serializes msg according to its concrete type and returns the
// opcode it belongs under plus its payload bytes. Unknown types are a
// programmer error, not a wire error.
func Encode(msg any) (Opcode, []byte) {
	w := NewWriter()
	switch m := msg.(type) {
	case LoginRequest:
		w.WriteString(m.Username)
		w.WriteString(m.Password)
		return OpLoginRequest, w.Bytes()
	case LoginResponse:
		w.WriteBool(m.OK)
		w.WriteI32(m.PlayerID)
		w.WriteString(m.Reason)
		return OpLoginResponse, w.Bytes()
	case LobbyCreate:
		w.WriteString(m.Name)
		w.WriteString(m.Password)
		w.WriteU8(m.MaxPlayers)
		w.WriteU8(m.Difficulty)
		return OpLobbyCreate, w.Bytes()
	case LobbyJoinRequest:
		w.WriteI32(m.LobbyID)
		w.WriteString(m.Password)
		return OpLobbyJoinRequest, w.Bytes()
	case LobbyJoinResponse:
		w.WriteBool(m.OK)
		w.WriteString(m.Reason)
		w.WriteI32(m.LobbyID)
		return OpLobbyJoinResponse, w.Bytes()
	case LobbyListRequest:
		return OpLobbyListRequest, w.Bytes()
	case LobbyListResponse:
		w.WriteU16(uint16(len(m.Lobbies)))
		for _, l := range m.Lobbies {
			w.WriteI32(l.LobbyID)
			w.WriteString(l.Name)
			w.WriteU8(l.PlayerCount)
			w.WriteU8(l.MaxPlayers)
			w.WriteBool(l.HasPassword)
		}
		return OpLobbyListResponse, w.Bytes()
	case PlayerReadyMsg:
		w.WriteBool(m.Ready)
		return OpPlayerReady, w.Bytes()
	case LobbyUpdate:
		w.WriteI32(m.LobbyID)
		w.WriteU16(uint16(len(m.Members)))
		for _, mem := range m.Members {
			w.WriteI32(mem.PlayerID)
			w.WriteString(mem.Name)
			w.WriteBool(mem.Ready)
			w.WriteBool(mem.IsHost)
		}
		return OpLobbyUpdate, w.Bytes()
	case LobbyLeave:
		return OpLobbyLeave, w.Bytes()
	case LobbyStart:
		w.WriteU8(m.CountdownSeconds)
		return OpLobbyStart, w.Bytes()
	case ChatMsg:
		w.WriteString(m.From)
		w.WriteString(m.Text)
		return OpChat, w.Bytes()
	case LobbyKick:
		w.WriteI32(m.PlayerID)
		w.WriteString(m.Reason)
		return OpLobbyKick, w.Bytes()
	case GameStartMsg:
		w.WriteI64(m.Seed)
		w.WriteF32(m.SpawnX)
		w.WriteF32(m.SpawnY)
		w.WriteF32(m.ScrollSpeed)
		return OpGameStart, w.Bytes()
	case GameEndMsg:
		w.WriteBool(m.Victory)
		w.WriteI32(m.FinalScore)
		return OpGameEnd, w.Bytes()
	case ClientLeaveMsg:
		return OpClientLeave, w.Bytes()
	case ErrorMsg:
		w.WriteU16(m.Code)
		w.WriteString(m.Message)
		return OpError, w.Bytes()
	case PlayerInputMsg:
		w.WriteU32(m.Tick)
		w.WriteBool(m.Left)
		w.WriteBool(m.Right)
		w.WriteBool(m.Up)
		w.WriteBool(m.Down)
		w.WriteU8(m.Fire)
		return OpPlayerInput, w.Bytes()
	case sim.GameState:
		encodeGameState(w, m)
		return OpGameState, w.Bytes()
	case AuthUDPMsg:
		w.WriteI32(m.PlayerID)
		w.WriteString(m.Token)
		return OpAuthUDP, w.Bytes()
	case BossSpawnMsg:
		w.WriteU32(m.EntityID)
		w.WriteU8(m.Kind)
		w.WriteI32(m.HP)
		w.WriteF32(m.X)
		w.WriteF32(m.Y)
		return OpBossSpawn, w.Bytes()
	case BossUpdateMsg:
		w.WriteU32(m.EntityID)
		w.WriteU8(m.Phase)
		w.WriteI32(m.HP)
		w.WriteF32(m.X)
		w.WriteF32(m.Y)
		return OpBossUpdate, w.Bytes()
	case EnemyHitMsg:
		w.WriteU32(m.EntityID)
		w.WriteI32(m.DamageDone)
		w.WriteI32(m.Remaining)
		return OpEnemyHit, w.Bytes()
	case ForceStateMsg:
		w.WriteI32(m.OwnerPlayerID)
		w.WriteU8(m.State)
		w.WriteF32(m.X)
		w.WriteF32(m.Y)
		return OpForceState, w.Bytes()
	default:
		panic(fmt.Sprintf("protocol: Encode called with unregistered type %T", msg))
	}
}

// Decode parses payload according to op and returns the typed message.
func Decode(op Opcode, payload []byte) (any, error) {
	r := NewReader(payload)
	switch op {
	case OpLoginRequest:
		return LoginRequest{Username: r.ReadString(), Password: r.ReadString()}, nil
	case OpLoginResponse:
		return LoginResponse{OK: r.ReadBool(), PlayerID: r.ReadI32(), Reason: r.ReadString()}, nil
	case OpLobbyCreate:
		return LobbyCreate{Name: r.ReadString(), Password: r.ReadString(), MaxPlayers: r.ReadU8(), Difficulty: r.ReadU8()}, nil
	case OpLobbyJoinRequest:
		return LobbyJoinRequest{LobbyID: r.ReadI32(), Password: r.ReadString()}, nil
	case OpLobbyJoinResponse:
		return LobbyJoinResponse{OK: r.ReadBool(), Reason: r.ReadString(), LobbyID: r.ReadI32()}, nil
	case OpLobbyListRequest:
		return LobbyListRequest{}, nil
	case OpLobbyListResponse:
		n := int(r.ReadU16())
		lobbies := make([]LobbySummary, 0, n)
		for i := 0; i < n; i++ {
			lobbies = append(lobbies, LobbySummary{
				LobbyID: r.ReadI32(), Name: r.ReadString(),
				PlayerCount: r.ReadU8(), MaxPlayers: r.ReadU8(), HasPassword: r.ReadBool(),
			})
		}
		return LobbyListResponse{Lobbies: lobbies}, nil
	case OpPlayerReady:
		return PlayerReadyMsg{Ready: r.ReadBool()}, nil
	case OpLobbyUpdate:
		lobbyID := r.ReadI32()
		n := int(r.ReadU16())
		members := make([]LobbyMember, 0, n)
		for i := 0; i < n; i++ {
			members = append(members, LobbyMember{
				PlayerID: r.ReadI32(), Name: r.ReadString(), Ready: r.ReadBool(), IsHost: r.ReadBool(),
			})
		}
		return LobbyUpdate{LobbyID: lobbyID, Members: members}, nil
	case OpLobbyLeave:
		return LobbyLeave{}, nil
	case OpLobbyStart:
		return LobbyStart{CountdownSeconds: r.ReadU8()}, nil
	case OpChat:
		return ChatMsg{From: r.ReadString(), Text: r.ReadString()}, nil
	case OpLobbyKick:
		return LobbyKick{PlayerID: r.ReadI32(), Reason: r.ReadString()}, nil
	case OpGameStart:
		return GameStartMsg{
			Seed: r.ReadI64(), SpawnX: r.ReadF32(), SpawnY: r.ReadF32(), ScrollSpeed: r.ReadF32(),
		}, nil
	case OpGameEnd:
		return GameEndMsg{Victory: r.ReadBool(), FinalScore: r.ReadI32()}, nil
	case OpClientLeave:
		return ClientLeaveMsg{}, nil
	case OpError:
		return ErrorMsg{Code: r.ReadU16(), Message: r.ReadString()}, nil
	case OpPlayerInput:
		return PlayerInputMsg{
			Tick: r.ReadU32(), Left: r.ReadBool(), Right: r.ReadBool(),
			Up: r.ReadBool(), Down: r.ReadBool(), Fire: r.ReadU8(),
		}, nil
	case OpGameState:
		return decodeGameState(r), nil
	case OpAuthUDP:
		return AuthUDPMsg{PlayerID: r.ReadI32(), Token: r.ReadString()}, nil
	case OpBossSpawn:
		return BossSpawnMsg{EntityID: r.ReadU32(), Kind: r.ReadU8(), HP: r.ReadI32(), X: r.ReadF32(), Y: r.ReadF32()}, nil
	case OpBossUpdate:
		return BossUpdateMsg{EntityID: r.ReadU32(), Phase: r.ReadU8(), HP: r.ReadI32(), X: r.ReadF32(), Y: r.ReadF32()}, nil
	case OpEnemyHit:
		return EnemyHitMsg{EntityID: r.ReadU32(), DamageDone: r.ReadI32(), Remaining: r.ReadI32()}, nil
	case OpForceState:
		return ForceStateMsg{OwnerPlayerID: r.ReadI32(), State: r.ReadU8(), X: r.ReadF32(), Y: r.ReadF32()}, nil
	default:
		return nil, fmt.Errorf("protocol: unknown opcode 0x%02X", byte(op))
	}
}
