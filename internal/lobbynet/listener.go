package lobbynet

import (
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Listener accepts TCP control-channel connections (spec.md §4.3's TCP
// messages) and hands each off as a Conn.
type Listener struct {
	ln       net.Listener
	nextID   atomic.Uint64
	newConns chan *Conn
	inSize   int
	outSize  int
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewListener(bindAddr string, inSize, outSize int, log *zap.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Listener{
		ln:       ln,
		newConns: make(chan *Conn, 64),
		inSize:   inSize,
		outSize:  outSize,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine, accepting connections and pushing
// each newly started Conn onto NewConns().
func (l *Listener) AcceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.closeCh:
				return
			default:
			}
			l.log.Error("accept failed", zap.Error(err))
			continue
		}
		id := l.nextID.Add(1)
		c := newConn(conn, id, l.inSize, l.outSize, l.log)
		c.Start(nil)
		l.log.Info("client connected", zap.Uint64("conn", id), zap.String("addr", c.RemoteAddr()))
		select {
		case l.newConns <- c:
		default:
			l.log.Warn("connection queue full, rejecting")
			c.Close()
		}
	}
}

func (l *Listener) NewConns() <-chan *Conn { return l.newConns }

func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

func (l *Listener) Shutdown() error {
	close(l.closeCh)
	return l.ln.Close()
}
