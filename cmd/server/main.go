package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/shmup/server/internal/config"
	"github.com/shmup/server/internal/lobbynet"
	"github.com/shmup/server/internal/match"
	"github.com/shmup/server/internal/persist"
	"github.com/shmup/server/internal/protocol"
	"github.com/shmup/server/internal/scripting"
	"github.com/shmup/server/internal/session"
	"github.com/shmup/server/internal/sim"
	"github.com/shmup/server/internal/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// server wires the Director (lobby/control), the UDP transport, and the
// set of currently-running Matches together (spec.md §5's three execution
// contexts, glued by the game tick thread's MatchStarter callback).
type server struct {
	cfg *config.Config
	log *zap.Logger
	dir *session.Director
	udp *transport.Server
	tcp *lobbynet.Listener

	mu      sync.Mutex // guards conns and matches, touched from accept/UDP/sweep/director goroutines
	conns   map[uint64]*lobbynet.Conn
	matches map[int32]*match.Match // keyed by lobby ID

	scoreRepo *persist.ScoreRepo
	acctRepo  *persist.AccountRepo

	campaign *sim.Campaign

	shutdownCtx context.Context
}

func (s *server) addConn(c *lobbynet.Conn) {
	s.mu.Lock()
	s.conns[c.ID] = c
	s.mu.Unlock()
}

func (s *server) dropConn(id uint64) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

func (s *server) conn(id uint64) (*lobbynet.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[id]
	return c, ok
}

func (s *server) connsSnapshot() map[uint64]*lobbynet.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint64]*lobbynet.Conn, len(s.conns))
	for id, c := range s.conns {
		out[id] = c
	}
	return out
}

func (s *server) addMatch(lobbyID int32, m *match.Match) {
	s.mu.Lock()
	s.matches[lobbyID] = m
	s.mu.Unlock()
}

func (s *server) dropMatch(lobbyID int32) {
	s.mu.Lock()
	delete(s.matches, lobbyID)
	s.mu.Unlock()
}

func (s *server) matchesSnapshot() []*match.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*match.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	return out
}

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("SHMUP_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting shmup server", zap.String("name", cfg.Server.Name))

	var acctRepo *persist.AccountRepo
	var scoreRepo *persist.ScoreRepo
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(context.Background(), db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		acctRepo = persist.NewAccountRepo(db)
		scoreRepo = persist.NewScoreRepo(db)
		log.Info("persistence enabled")
	} else {
		log.Info("persistence disabled: database.dsn is empty (spec.md §6: absence is tolerated)")
	}

	campaign := sim.DefaultCampaign()
	if cfg.Game.WaveScript != "" {
		if _, statErr := os.Stat(cfg.Game.WaveScript); statErr == nil {
			eng := scripting.NewEngine(log)
			defer eng.Close()
			loaded, err := eng.LoadCampaign(cfg.Game.WaveScript)
			if err != nil {
				log.Warn("wave script load failed, using built-in campaign", zap.Error(err))
			} else {
				campaign = loaded
				log.Info("loaded wave script campaign", zap.String("path", cfg.Game.WaveScript))
			}
		}
	}

	tcpAddr := fmt.Sprintf("%s:%d", cfg.Network.BindHost, cfg.Network.TCPPort)
	tcp, err := lobbynet.NewListener(tcpAddr, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("tcp listen: %w", err)
	}

	udpAddr := fmt.Sprintf("%s:%d", cfg.Network.BindHost, cfg.Network.UDPPort)
	udp, err := transport.NewServer(udpAddr, log)
	if err != nil {
		return fmt.Errorf("udp listen: %w", err)
	}

	srv := &server{
		cfg: cfg, log: log, udp: udp, tcp: tcp,
		conns: make(map[uint64]*lobbynet.Conn),

		scoreRepo: scoreRepo, acctRepo: acctRepo,
		campaign: campaign,
		matches:  make(map[int32]*match.Match),
	}
	srv.dir = session.NewDirector(log, srv.sendControl, srv.onMatchStart)

	// The IO accept loop, the UDP read/dispatch loop, and the retransmit/
	// timeout sweep all run in one errgroup (SPEC_FULL.md's
	// golang.org/x/sync/errgroup wiring). Each returns the group context's
	// error, so a loop that stops on its own returns nil: that cancels
	// nothing, and shutdown still waits for a signal. On a signal, cancel()
	// stops the loops and group.Wait collects them.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, gctx := errgroup.WithContext(ctx)
	srv.shutdownCtx = gctx
	group.Go(func() error { tcp.AcceptLoop(); return gctx.Err() })
	group.Go(func() error { udp.ReadLoop(); return gctx.Err() })
	group.Go(func() error { srv.acceptLoop(); return gctx.Err() })
	group.Go(func() error { srv.udpLoop(); return gctx.Err() })
	group.Go(func() error { srv.sweepLoop(gctx); return gctx.Err() })

	log.Info("server ready",
		zap.String("tcp", tcp.Addr().String()),
		zap.String("udp", udp.Addr().String()),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	log.Info("shutting down", zap.String("signal", sig.String()))
	cancel()

	for _, m := range srv.matchesSnapshot() {
		m.Stop()
	}
	shutdownErr := multierr.Combine(tcp.Shutdown(), udp.Close())
	if shutdownErr != nil {
		log.Warn("errors during shutdown", zap.Error(shutdownErr))
	}
	if err := group.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("background loop: %w", err)
	}
	return shutdownErr
}

// acceptLoop hands each new control-channel connection its own read-relay
// goroutine, dispatching decoded messages to the Director synchronously
// (spec.md §5: "handlers post parsed events" — here, handled inline since
// the Director is the sole owner of lobby state and guards it with a
// single mutex held briefly).
func (s *server) acceptLoop() {
	for {
		select {
		case <-s.shutdownCtx.Done():
			return
		case conn, ok := <-s.tcp.NewConns():
			if !ok {
				return
			}
			s.addConn(conn)
			go s.relayConn(conn)
		}
	}
}

func (s *server) relayConn(conn *lobbynet.Conn) {
	for in := range conn.In {
		s.dir.Dispatch(in, s.checkPassword)
	}
	s.dropConn(conn.ID)
	s.dir.HandleDisconnect(conn.ID)
}

func (s *server) sendControl(connID uint64, msg any) {
	if c, ok := s.conn(connID); ok {
		c.Send(msg)
	}
}

func (s *server) checkPassword(username, password string) (bool, error) {
	if s.acctRepo == nil {
		return username != "", nil // no persistence: any non-empty username is accepted
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row, err := s.acctRepo.Load(ctx, username)
	if err != nil {
		return false, err
	}
	if row == nil {
		_, err := s.acctRepo.Create(ctx, username, password)
		return err == nil, err
	}
	if row.Banned {
		return false, nil
	}
	return s.acctRepo.ValidatePassword(row.PasswordHash, password), nil
}

// udpLoop drains decoded UDP datagrams, routing AUTH_UDP/PLAYER_INPUT to the
// match owning the sending address.
func (s *server) udpLoop() {
	for {
		var in transport.Inbound
		select {
		case <-s.shutdownCtx.Done():
			return
		case v, ok := <-s.udp.In():
			if !ok {
				return
			}
			in = v
		}
		switch msg := in.Message.(type) {
		case protocol.AuthUDPMsg:
			s.dir.NoteUDPHeard(msg.PlayerID, in.Addr, time.Now())
			for _, m := range s.matchesSnapshot() {
				m.AuthUDP(msg.PlayerID, in.Addr)
			}
		case protocol.PlayerInputMsg:
			for _, m := range s.matchesSnapshot() {
				m.HandleInput(in.Addr, msg)
			}
		}
	}
}

// sweepLoop drives the retransmission sweep every 100 ms and the
// peer-timeout sweep every second (spec.md §5's "Timeout timer: scheduled
// on the IO context, fires each second").
func (s *server) sweepLoop(ctx context.Context) {
	retransmit := time.NewTicker(100 * time.Millisecond)
	timeout := time.NewTicker(1 * time.Second)
	defer retransmit.Stop()
	defer timeout.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-retransmit.C:
			s.udp.SweepRetransmits()
		case <-timeout.C:
			now := time.Now()
			for _, playerID := range s.dir.SweepUDPTimeouts(now) {
				s.log.Info("peer timed out", zap.Int32("player_id", playerID))
				for _, m := range s.matchesSnapshot() {
					m.KillPlayerOnTimeout(playerID)
				}
			}
		}
	}
}

// onMatchStart is the session Director's MatchStarter callback: it spins up
// a Simulation Kernel for the lobby and starts its tick goroutine (spec.md
// §4.5: "GAME_START{spawn, scrollSpeed}... transitioning all members to
// InGame").
func (s *server) onMatchStart(lobby *session.Lobby, members []*session.Player) {
	matchMembers := make([]match.Member, len(members))
	for i, p := range members {
		matchMembers[i] = match.Member{PlayerID: p.PlayerID, ConnID: p.ConnID, Username: p.Username}
	}

	const spawnX, spawnY, scrollSpeed = 200, 300, 50
	seed := time.Now().UnixNano()

	campaign := &sim.Campaign{Levels: s.campaign.Levels} // fresh progress state per match
	m := match.New(seed, campaign, s.udp, s.log, matchMembers, spawnX, spawnY, s.recordScore)
	s.addMatch(lobby.ID, m)
	m.OnEnd(func() {
		m.Stop()
		s.dropMatch(lobby.ID)
	})

	startMsg := match.BuildGameStart(seed, spawnX, spawnY, scrollSpeed)
	match.SendGameStart(s.connsSnapshot(), matchMembers, startMsg)

	go m.Run()
}

func (s *server) recordScore(playerID int32, username string, score int32, levelReached int, victory bool) {
	if s.scoreRepo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	row := persist.ScoreRow{AccountName: username, Score: score, LevelReached: levelReached, Victory: victory, PlayedAt: time.Now()}
	if err := s.scoreRepo.Record(ctx, row); err != nil {
		s.log.Warn("score record failed", zap.Int32("player_id", playerID), zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
