package session

import (
	"sync"
	"testing"
	"time"

	"github.com/shmup/server/internal/lobbynet"
	"github.com/shmup/server/internal/protocol"
	"go.uber.org/zap"
)

// recordingSink collects every (connID, msg) sent by a Director under test,
// standing in for the real lobbynet connections.
type recordingSink struct {
	mu  sync.Mutex
	out []sentMsg
}

type sentMsg struct {
	connID uint64
	msg    any
}

func (r *recordingSink) send(connID uint64, msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, sentMsg{connID, msg})
}

func (r *recordingSink) forConn(connID uint64) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, s := range r.out {
		if s.connID == connID {
			out = append(out, s.msg)
		}
	}
	return out
}

func (r *recordingSink) last(connID uint64) any {
	msgs := r.forConn(connID)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func allowAll(username, password string) (bool, error) { return username != "", nil }

func newTestDirector(onStart MatchStarter) (*Director, *recordingSink) {
	sink := &recordingSink{}
	d := NewDirector(zap.NewNop(), sink.send, onStart)
	return d, sink
}

func TestLobbyJoinFlowTwoPlayersReachInGame(t *testing.T) {
	var started []*Lobby
	var mu sync.Mutex
	onStart := func(lobby *Lobby, members []*Player) {
		mu.Lock()
		started = append(started, lobby)
		mu.Unlock()
	}
	d, sink := newTestDirector(onStart)

	d.HandleLogin(1, protocol.LoginRequest{Username: "host", Password: "x"}, allowAll)
	d.HandleLogin(2, protocol.LoginRequest{Username: "guest", Password: "x"}, allowAll)

	hostResp, ok := sink.last(1).(protocol.LoginResponse)
	if !ok || !hostResp.OK {
		t.Fatalf("host login failed: %+v", sink.last(1))
	}

	d.HandleLobbyCreate(1, protocol.LobbyCreate{Name: "room", MaxPlayers: 4, Difficulty: 1})
	update, ok := sink.last(1).(protocol.LobbyUpdate)
	if !ok {
		t.Fatalf("expected a LobbyUpdate after create, got %+v", sink.last(1))
	}
	lobbyID := update.LobbyID

	d.HandleLobbyJoin(2, protocol.LobbyJoinRequest{LobbyID: lobbyID})
	joinResp, ok := sink.last(2).(protocol.LobbyJoinResponse)
	if !ok || !joinResp.OK {
		t.Fatalf("guest join failed: %+v", sink.last(2))
	}

	d.HandlePlayerReady(1, protocol.PlayerReadyMsg{Ready: true})
	d.HandlePlayerReady(2, protocol.PlayerReadyMsg{Ready: true})

	startMsg, ok := sink.last(1).(protocol.LobbyStart)
	if !ok || startMsg.CountdownSeconds == 0 {
		t.Fatalf("expected a LobbyStart broadcast once both members are ready, got %+v", sink.last(1))
	}

	deadline := time.Now().Add(readyCountdown + 2*time.Second)
	for {
		mu.Lock()
		n := len(started)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("onMatchStart was never called after the ready countdown")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLobbyJoinRejectsWrongPassword(t *testing.T) {
	d, sink := newTestDirector(nil)
	d.HandleLogin(1, protocol.LoginRequest{Username: "host"}, allowAll)
	d.HandleLogin(2, protocol.LoginRequest{Username: "guest"}, allowAll)
	d.HandleLobbyCreate(1, protocol.LobbyCreate{Name: "locked", Password: "secret", MaxPlayers: 4})
	lobbyID := sink.last(1).(protocol.LobbyUpdate).LobbyID

	d.HandleLobbyJoin(2, protocol.LobbyJoinRequest{LobbyID: lobbyID, Password: "wrong"})

	resp, ok := sink.last(2).(protocol.LobbyJoinResponse)
	if !ok || resp.OK {
		t.Fatalf("join with the wrong password should fail, got %+v", sink.last(2))
	}
}

func TestLobbyJoinRejectsWhenFull(t *testing.T) {
	d, sink := newTestDirector(nil)
	d.HandleLogin(1, protocol.LoginRequest{Username: "a"}, allowAll)
	d.HandleLogin(2, protocol.LoginRequest{Username: "b"}, allowAll)
	d.HandleLogin(3, protocol.LoginRequest{Username: "c"}, allowAll)
	d.HandleLobbyCreate(1, protocol.LobbyCreate{Name: "tiny", MaxPlayers: 1})
	lobbyID := sink.last(1).(protocol.LobbyUpdate).LobbyID

	d.HandleLobbyJoin(2, protocol.LobbyJoinRequest{LobbyID: lobbyID})
	resp := sink.last(2).(protocol.LobbyJoinResponse)
	if resp.OK {
		t.Fatalf("a single-slot lobby already holding its host should reject a second join")
	}
}

func TestHandleDisconnectReassignsHost(t *testing.T) {
	d, sink := newTestDirector(nil)
	d.HandleLogin(1, protocol.LoginRequest{Username: "host"}, allowAll)
	d.HandleLogin(2, protocol.LoginRequest{Username: "guest"}, allowAll)
	d.HandleLobbyCreate(1, protocol.LobbyCreate{Name: "room", MaxPlayers: 4})
	lobbyID := sink.last(1).(protocol.LobbyUpdate).LobbyID
	d.HandleLobbyJoin(2, protocol.LobbyJoinRequest{LobbyID: lobbyID})

	d.HandleDisconnect(1)

	update, ok := sink.last(2).(protocol.LobbyUpdate)
	if !ok {
		t.Fatalf("guest should receive a LobbyUpdate after the host disconnects, got %+v", sink.last(2))
	}
	if len(update.Members) != 1 || !update.Members[0].IsHost {
		t.Fatalf("guest should have inherited host status: %+v", update.Members)
	}
}

func TestDispatchRoutesLoginRequest(t *testing.T) {
	d, sink := newTestDirector(nil)
	d.Dispatch(lobbynet.Inbound{ConnID: 1, Message: protocol.LoginRequest{Username: "alice"}}, allowAll)
	resp, ok := sink.last(1).(protocol.LoginResponse)
	if !ok || !resp.OK {
		t.Fatalf("Dispatch should route LoginRequest to HandleLogin, got %+v", sink.last(1))
	}
}

func TestSweepUDPTimeoutsOnlyFlagsStaleInGamePlayers(t *testing.T) {
	d, _ := newTestDirector(nil)
	d.HandleLogin(1, protocol.LoginRequest{Username: "a"}, allowAll)
	d.HandleLogin(2, protocol.LoginRequest{Username: "b"}, allowAll)

	now := time.Now()
	d.byPlayerID[1].State = InGame
	d.byPlayerID[1].LastUDPSeen = now.Add(-udpTimeout - time.Second)
	d.byPlayerID[2].State = InGame
	d.byPlayerID[2].LastUDPSeen = now

	timedOut := d.SweepUDPTimeouts(now)
	if len(timedOut) != 1 || timedOut[0] != 1 {
		t.Fatalf("timed out = %v, want only player 1", timedOut)
	}
}

func TestSweepUDPTimeoutsIgnoresPlayersNotInGame(t *testing.T) {
	d, _ := newTestDirector(nil)
	d.HandleLogin(1, protocol.LoginRequest{Username: "a"}, allowAll)
	d.byPlayerID[1].State = InLobby
	d.byPlayerID[1].LastUDPSeen = time.Now().Add(-udpTimeout - time.Second)

	if timedOut := d.SweepUDPTimeouts(time.Now()); len(timedOut) != 0 {
		t.Fatalf("a lobby-state player should never be flagged as a UDP timeout, got %v", timedOut)
	}
}
