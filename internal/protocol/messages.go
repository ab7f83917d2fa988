package protocol

// Messages carried by the TCP control channel (lobby/session director).

type LoginRequest struct {
	Username string
	Password string
}

type LoginResponse struct {
	OK      bool
	PlayerID int32
	Reason  string
}

type LobbyCreate struct {
	Name       string
	Password   string
	MaxPlayers uint8
	Difficulty uint8
}

type LobbyJoinRequest struct {
	LobbyID  int32
	Password string
}

type LobbyJoinResponse struct {
	OK     bool
	Reason string
	LobbyID int32
}

type LobbyListRequest struct{}

type LobbySummary struct {
	LobbyID    int32
	Name       string
	PlayerCount uint8
	MaxPlayers  uint8
	HasPassword bool
}

type LobbyListResponse struct {
	Lobbies []LobbySummary
}

type PlayerReadyMsg struct {
	Ready bool
}

type LobbyMember struct {
	PlayerID int32
	Name     string
	Ready    bool
	IsHost   bool
}

type LobbyUpdate struct {
	LobbyID int32
	Members []LobbyMember
}

type LobbyLeave struct{}

type LobbyStart struct {
	CountdownSeconds uint8
}

type ChatMsg struct {
	From string
	Text string
}

type LobbyKick struct {
	PlayerID int32
	Reason   string
}

type GameStartMsg struct {
	Seed        int64
	SpawnX      float32
	SpawnY      float32
	ScrollSpeed float32
}

type GameEndMsg struct {
	Victory    bool
	FinalScore int32
}

type ClientLeaveMsg struct{}

type ErrorMsg struct {
	Code    uint16
	Message string
}

// Messages carried by the UDP data channel (simulation kernel).

type PlayerInputMsg struct {
	Tick  uint32
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Fire  uint8
}

type AuthUDPMsg struct {
	PlayerID int32
	Token    string
}

type BossSpawnMsg struct {
	EntityID uint32
	Kind     uint8
	HP       int32
	X, Y     float32
}

type BossUpdateMsg struct {
	EntityID uint32
	Phase    uint8
	HP       int32
	X, Y     float32
}

type EnemyHitMsg struct {
	EntityID   uint32
	DamageDone int32
	Remaining  int32
}

type ForceStateMsg struct {
	OwnerPlayerID int32
	State         uint8
	X, Y          float32
}
