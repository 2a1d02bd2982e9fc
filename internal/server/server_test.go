package server_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/kvignite/internal/engine"
	"github.com/iamNilotpal/kvignite/internal/server"
	"github.com/iamNilotpal/kvignite/pkg/options"
)

const (
	defaultWait = 2 * time.Second
	defaultTick = 10 * time.Millisecond
)

func newTestServer(t *testing.T) (*server.Server, func()) {
	t.Helper()

	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.SegmentOptions.Directory = ""

	eng, err := engine.New(context.Background(), &engine.Config{Logger: zap.NewNop().Sugar(), Options: &opts})
	require.NoError(t, err)

	return server.New(eng, zap.NewNop().Sugar()), func() { eng.Close() }
}

// roundTrip connects to addr, writes req, half-closes, and returns
// the full reply.
func roundTrip(t *testing.T, addr string, req string) string {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(req))
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	reply, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(reply)
}

func TestWireProtocolRoundTrip(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	go srv.Serve(addr)

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, defaultWait, defaultTick)

	require.Equal(t, "", roundTrip(t, addr, "set foo bar"))
	require.Equal(t, "bar", roundTrip(t, addr, "get foo"))
	require.Equal(t, "Key not found", roundTrip(t, addr, "get missing"))
}

func TestWireProtocolSetValueIsSingleToken(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	go srv.Serve(addr)

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, defaultWait, defaultTick)

	// Tokens past the first value token are dropped, not concatenated:
	// the grammar admits only a single value token per request.
	require.Equal(t, "", roundTrip(t, addr, "set foo bar baz"))
	require.Equal(t, "bar", roundTrip(t, addr, "get foo"))
}
