package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shmup/server/internal/lobbynet"
	"github.com/shmup/server/internal/protocol"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const readyCountdown = 3 * time.Second

// MatchStarter is called once a lobby has every member ready (spec.md
// §4.5's "server sends LOBBY_START{countdown} then GAME_START ... after the
// countdown"). The caller owns spinning up the Simulation Kernel.
type MatchStarter func(lobby *Lobby, members []*Player)

// Director owns every connected Player and Lobby. Its handlers are called
// from each control connection's own relay goroutine, and the timeout sweep
// and the post-countdown match start run on goroutines of their own, so
// every access to this state goes through the mutex.
type Director struct {
	mu sync.Mutex

	players     map[uint64]*Player // keyed by ConnID
	byPlayerID  map[int32]*Player
	lobbies     map[int32]*Lobby
	nextPlayer  atomic.Int32
	nextLobby   atomic.Int32

	send func(connID uint64, msg any)

	log *zap.Logger

	onMatchStart MatchStarter
}

func NewDirector(log *zap.Logger, send func(connID uint64, msg any), onMatchStart MatchStarter) *Director {
	return &Director{
		players:      make(map[uint64]*Player),
		byPlayerID:   make(map[int32]*Player),
		lobbies:      make(map[int32]*Lobby),
		send:         send,
		log:          log,
		onMatchStart: onMatchStart,
	}
}

// HandleLogin authenticates a freshly connected control-channel connection,
// creating its Player record in state Authenticated on success.
func (d *Director) HandleLogin(connID uint64, req protocol.LoginRequest, checkPassword func(username, password string) (ok bool, err error)) {
	ok, err := checkPassword(req.Username, req.Password)
	if err != nil || !ok {
		d.send(connID, protocol.LoginResponse{OK: false, Reason: "invalid credentials"})
		return
	}

	d.mu.Lock()
	id := d.nextPlayer.Add(1)
	p := &Player{PlayerID: id, ConnID: connID, Username: req.Username, State: Authenticated}
	d.players[connID] = p
	d.byPlayerID[id] = p
	d.mu.Unlock()

	d.send(connID, protocol.LoginResponse{OK: true, PlayerID: id})
}

// HandleLobbyCreate creates a new lobby with the requester as host.
func (d *Director) HandleLobbyCreate(connID uint64, msg protocol.LobbyCreate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[connID]
	if !ok || p.State != Authenticated {
		d.send(connID, protocol.ErrorMsg{Code: 1, Message: "must be logged in to create a lobby"})
		return
	}
	maxPlayers := int(msg.MaxPlayers)
	if maxPlayers <= 0 {
		maxPlayers = 4
	}
	difficulty := int(msg.Difficulty)
	if difficulty < 1 || difficulty > 5 {
		difficulty = 1
	}
	lobbyID := d.nextLobby.Add(1)
	lobby := &Lobby{
		ID: lobbyID, Name: msg.Name, Password: msg.Password, Difficulty: difficulty,
		MaxPlayers: maxPlayers, HostID: p.PlayerID, Members: []int32{p.PlayerID},
	}
	d.lobbies[lobbyID] = lobby
	p.State = InLobby
	p.LobbyID = lobbyID
	d.broadcastLobbyLocked(lobby)
}

// HandleLobbyJoin implements spec.md §4.5's join precondition: not started,
// not full, and (password empty or password matches).
func (d *Director) HandleLobbyJoin(connID uint64, msg protocol.LobbyJoinRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[connID]
	if !ok || p.State != Authenticated {
		d.send(connID, protocol.LobbyJoinResponse{OK: false, Reason: "must be logged in"})
		return
	}
	lobby, ok := d.lobbies[msg.LobbyID]
	if !ok {
		d.send(connID, protocol.LobbyJoinResponse{OK: false, Reason: "lobby not found"})
		return
	}
	switch {
	case lobby.Started:
		d.send(connID, protocol.LobbyJoinResponse{OK: false, Reason: "match already started"})
		return
	case lobby.Full():
		d.send(connID, protocol.LobbyJoinResponse{OK: false, Reason: "lobby full"})
		return
	case lobby.HasPassword() && lobby.Password != msg.Password:
		d.send(connID, protocol.LobbyJoinResponse{OK: false, Reason: "wrong password"})
		return
	}
	lobby.Members = append(lobby.Members, p.PlayerID)
	p.State = InLobby
	p.LobbyID = lobby.ID
	d.send(connID, protocol.LobbyJoinResponse{OK: true, LobbyID: lobby.ID})
	d.broadcastLobbyLocked(lobby)
}

// HandlePlayerReady flips the sender's ready flag and checks for match start.
func (d *Director) HandlePlayerReady(connID uint64, msg protocol.PlayerReadyMsg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[connID]
	if !ok || (p.State != InLobby && p.State != Ready) {
		return
	}
	p.ReadyUp = msg.Ready
	if msg.Ready {
		p.State = Ready
	} else {
		p.State = InLobby
	}
	lobby, ok := d.lobbies[p.LobbyID]
	if !ok {
		return
	}
	d.broadcastLobbyLocked(lobby)
	d.maybeStartLocked(lobby)
}

// maybeStartLocked implements "when >= 2 members are present and all are
// ready, server sends LOBBY_START{countdown} then GAME_START ... after the
// countdown, transitioning all members to InGame".
func (d *Director) maybeStartLocked(lobby *Lobby) {
	if lobby.Started || len(lobby.Members) < 2 {
		return
	}
	members := make([]*Player, 0, len(lobby.Members))
	for _, id := range lobby.Members {
		pl, ok := d.byPlayerID[id]
		if !ok || !pl.ReadyUp {
			return
		}
		members = append(members, pl)
	}
	lobby.Started = true
	for _, pl := range members {
		d.send(pl.ConnID, protocol.LobbyStart{CountdownSeconds: uint8(readyCountdown.Seconds())})
	}
	go d.startAfterCountdown(lobby, members)
}

func (d *Director) startAfterCountdown(lobby *Lobby, members []*Player) {
	time.Sleep(readyCountdown)
	d.mu.Lock()
	for _, pl := range members {
		pl.State = InGame
	}
	d.mu.Unlock()
	if d.onMatchStart != nil {
		d.onMatchStart(lobby, members)
	}
}

// HandleChat relays to every member of the sender's lobby.
func (d *Director) HandleChat(connID uint64, msg protocol.ChatMsg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[connID]
	if !ok || p.LobbyID == 0 {
		return
	}
	lobby, ok := d.lobbies[p.LobbyID]
	if !ok {
		return
	}
	out := protocol.ChatMsg{From: p.Username, Text: msg.Text}
	for _, id := range lobby.Members {
		if member, ok := d.byPlayerID[id]; ok {
			d.send(member.ConnID, out)
		}
	}
}

// HandleLobbyLeave and HandleDisconnect share the removal path.
func (d *Director) HandleLobbyLeave(connID uint64, _ protocol.LobbyLeave) {
	d.removeFromLobby(connID)
}

// HandleDisconnect cleans up a player whose control connection closed.
func (d *Director) HandleDisconnect(connID uint64) {
	d.removeFromLobby(connID)
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[connID]
	if !ok {
		return
	}
	delete(d.players, connID)
	delete(d.byPlayerID, p.PlayerID)
}

func (d *Director) removeFromLobby(connID uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[connID]
	if !ok || p.LobbyID == 0 {
		return
	}
	lobby, ok := d.lobbies[p.LobbyID]
	if !ok {
		return
	}
	empty := lobby.remove(p.PlayerID)
	p.LobbyID = 0
	p.State = Authenticated
	if empty {
		delete(d.lobbies, lobby.ID)
		return
	}
	d.broadcastLobbyLocked(lobby)
}

func (d *Director) broadcastLobbyLocked(lobby *Lobby) {
	update := protocol.LobbyUpdate{LobbyID: lobby.ID}
	for _, id := range lobby.Members {
		pl, ok := d.byPlayerID[id]
		if !ok {
			continue
		}
		update.Members = append(update.Members, protocol.LobbyMember{
			PlayerID: pl.PlayerID, Name: pl.Username, Ready: pl.ReadyUp, IsHost: pl.PlayerID == lobby.HostID,
		})
	}
	for _, id := range lobby.Members {
		if pl, ok := d.byPlayerID[id]; ok {
			d.send(pl.ConnID, update)
		}
	}
}

// NoteUDPHeard stamps the last-seen time for a player's UDP peer address
// (spec.md §4.5's timeout tracking, fed by AUTH_UDP and subsequent traffic).
func (d *Director) NoteUDPHeard(playerID int32, addr string, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.byPlayerID[playerID]
	if !ok {
		return
	}
	p.LastUDPAddr = addr
	p.LastUDPSeen = now
}

// SweepUDPTimeouts returns the PlayerIDs of InGame players not heard from
// on UDP for more than 10s (spec.md §7's PeerTimeout); the caller kills
// their ECS entities. It changes no Director state: the player stays InGame
// and in its lobby, its control connection is not closed, and it is
// reported again by every later sweep.
func (d *Director) SweepUDPTimeouts(now time.Time) (timedOut []int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.byPlayerID {
		if p.State != InGame || p.LastUDPSeen.IsZero() {
			continue
		}
		if now.Sub(p.LastUDPSeen) > udpTimeout {
			timedOut = append(timedOut, id)
		}
	}
	return timedOut
}

// LobbyListSnapshot answers a LOBBY_LIST_REQUEST.
func (d *Director) LobbyListSnapshot() protocol.LobbyListResponse {
	d.mu.Lock()
	defer d.mu.Unlock()
	resp := protocol.LobbyListResponse{}
	for _, lobby := range d.lobbies {
		if lobby.Started {
			continue
		}
		resp.Lobbies = append(resp.Lobbies, protocol.LobbySummary{
			LobbyID: lobby.ID, Name: lobby.Name,
			PlayerCount: uint8(len(lobby.Members)), MaxPlayers: uint8(lobby.MaxPlayers),
			HasPassword: lobby.HasPassword(),
		})
	}
	return resp
}

// HashPassword and VerifyPassword wrap golang.org/x/crypto/bcrypt. Nothing
// in this module calls them: persist.AccountRepo calls bcrypt itself, and
// lobby passwords are compared as plain text.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(hash), err
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Dispatch routes one decoded control-channel message to its handler.
// checkPassword is only consulted for LOGIN_REQUEST.
func (d *Director) Dispatch(in lobbynet.Inbound, checkPassword func(username, password string) (bool, error)) {
	switch msg := in.Message.(type) {
	case protocol.LoginRequest:
		d.HandleLogin(in.ConnID, msg, checkPassword)
	case protocol.LobbyCreate:
		d.HandleLobbyCreate(in.ConnID, msg)
	case protocol.LobbyJoinRequest:
		d.HandleLobbyJoin(in.ConnID, msg)
	case protocol.LobbyListRequest:
		d.send(in.ConnID, d.LobbyListSnapshot())
	case protocol.PlayerReadyMsg:
		d.HandlePlayerReady(in.ConnID, msg)
	case protocol.ChatMsg:
		d.HandleChat(in.ConnID, msg)
	case protocol.LobbyLeave:
		d.HandleLobbyLeave(in.ConnID, msg)
	case protocol.ClientLeaveMsg:
		d.HandleDisconnect(in.ConnID)
	}
}
