package ws

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"testing"

	socketio "github.com/googollee/go-socket.io"

	"github.com/mkirsch/shipgraph/internal/config"
	"github.com/mkirsch/shipgraph/internal/game"
	"github.com/mkirsch/shipgraph/internal/graph"
)

// stubConn satisfies socketio.Conn for member-registry tests. Only ID
// and Emit carry behavior; the rest are inert.
type stubConn struct {
	id string

	mu     sync.Mutex
	events []string
}

func (c *stubConn) Emit(event string, _ ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *stubConn) received(event string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e == event {
			n++
		}
	}
	return n
}

func (c *stubConn) Close() error               { return nil }
func (c *stubConn) ID() string                 { return c.id }
func (c *stubConn) URL() url.URL               { return url.URL{} }
func (c *stubConn) LocalAddr() net.Addr        { return nil }
func (c *stubConn) RemoteAddr() net.Addr       { return nil }
func (c *stubConn) RemoteHeader() http.Header  { return nil }
func (c *stubConn) Context() interface{}       { return nil }
func (c *stubConn) SetContext(ctx interface{}) {}
func (c *stubConn) Namespace() string          { return "/" }
func (c *stubConn) Join(room string)           {}
func (c *stubConn) Leave(room string)          {}
func (c *stubConn) LeaveAll()                  {}
func (c *stubConn) Rooms() []string            { return nil }

var _ socketio.Conn = (*stubConn)(nil)

func newTestServer(t *testing.T) (*Server, *game.Session) {
	t.Helper()
	g := graph.Build([]graph.Edge{
		{A: "Anna", B: "Ben"},
		{A: "Ben", B: "Clara"},
		{A: "Clara", B: "Dora"},
	})
	mgr := game.NewManager(g)
	sess, err := mgr.CreateSession(game.Settings{})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return New(mgr, config.Config{}), sess
}

func TestEmitStateReachesSessionMembers(t *testing.T) {
	srv, sess := newTestServer(t)

	a := &stubConn{id: "a"}
	b := &stubConn{id: "b"}
	srv.addMember(sess.Code, a)
	srv.addMember(sess.Code, b)

	srv.emitStateTo(sess.Code)
	if a.received("game:state") != 1 || b.received("game:state") != 1 {
		t.Fatalf("both members should get one state broadcast, got a=%d b=%d",
			a.received("game:state"), b.received("game:state"))
	}

	srv.removeMember(sess.Code, b)
	srv.emitStateTo(sess.Code)
	if a.received("game:state") != 2 {
		t.Fatalf("remaining member should keep receiving, got %d", a.received("game:state"))
	}
	if b.received("game:state") != 1 {
		t.Fatalf("removed member should stop receiving, got %d", b.received("game:state"))
	}

	// Unknown session codes are a quiet no-op.
	srv.emitStateTo("NOPE1")
}

func TestMemberRegistryConcurrentAccess(t *testing.T) {
	srv, sess := newTestServer(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &stubConn{id: fmt.Sprintf("sid-%d", i)}
			for j := 0; j < 50; j++ {
				srv.addMember(sess.Code, c)
				srv.emitStateTo(sess.Code)
				srv.removeMember(sess.Code, c)
			}
		}(i)
	}
	wg.Wait()

	if n := len(srv.members[sess.Code]); n != 0 {
		t.Fatalf("all members removed, registry should be empty, got %d", n)
	}
}
