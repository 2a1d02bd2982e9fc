// Package server implements the request handler: one request per TCP
// connection, dispatched onto a kvengine.Engine and replied to in the
// line-oriented wire grammar. It never names a concrete engine, only
// the kvengine.Engine capability.
package server

import (
	"fmt"
	"io"
	"net"
	"strings"

	"go.uber.org/zap"

	kverrors "github.com/iamNilotpal/kvignite/pkg/errors"

	"github.com/iamNilotpal/kvignite/internal/kvengine"
)

const separator = " "

// Server accepts connections serially and drives them against a
// single kvengine.Engine: each connection is handled to completion
// before the next is accepted.
type Server struct {
	engine kvengine.Engine
	log    *zap.SugaredLogger
}

// New builds a Server over the given engine and logger.
func New(engine kvengine.Engine, log *zap.SugaredLogger) *Server {
	return &Server{engine: engine, log: log}
}

// Serve binds addr and then accepts connections without returning. A
// bind failure is fatal and returned to the caller; a per-connection
// accept failure is logged and the loop continues.
func (s *Server) Serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", addr, err)
	}
	defer listener.Close()

	s.log.Infow("listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.log.Errorw("accept failed", "error", err)
			continue
		}
		s.handleConn(conn)
	}
}

// handleConn reads the whole client request (the client half-closes
// its write side once done), dispatches it, writes the reply, and
// closes the connection. An unknown verb drops the connection without
// a reply.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	s.log.Debugw("accepted connection", "remote", conn.RemoteAddr())

	buf, err := io.ReadAll(conn)
	if err != nil {
		s.log.Errorw("read request failed", "error", err)
		return
	}

	req := string(buf)
	s.log.Debugw("received request", "request", req)

	verb, rest, _ := strings.Cut(req, separator)

	var reply string
	switch verb {
	case "get":
		key := rest
		if key == "" {
			s.logBadRequest(kverrors.NewRequiredFieldError("key").WithCode(kverrors.ErrorCodeBadRequest))
			return
		}
		value, ok, err := s.engine.Get(key)
		if err != nil {
			s.logEngineFailure("get", key, err)
			return
		}
		if ok {
			reply = value
		} else {
			reply = "Key not found"
		}

	case "set":
		key, after, ok := strings.Cut(rest, separator)
		if !ok || key == "" {
			s.logBadRequest(kverrors.NewRequiredFieldError("value").WithCode(kverrors.ErrorCodeBadRequest))
			return
		}
		// The value is a single token: anything past the next separator
		// is discarded, since the grammar admits no values containing
		// the separator byte.
		value, _, _ := strings.Cut(after, separator)
		if err := s.engine.Set(key, value); err != nil {
			s.logEngineFailure("set", key, err)
			return
		}

	case "rm":
		key := rest
		if key == "" {
			s.logBadRequest(kverrors.NewRequiredFieldError("key").WithCode(kverrors.ErrorCodeBadRequest))
			return
		}
		if err := s.engine.Remove(key); err != nil {
			s.log.Debugw("remove: key not found", "key", key, "error", err)
			reply = fmt.Sprintf("Key not found: %v", err)
		}

	default:
		err := kverrors.NewFieldFormatError("verb", verb, "one of get|set|rm").WithCode(kverrors.ErrorCodeUnknownOperation)
		s.log.Errorw("unknown operation, dropping connection",
			"verb", verb, "code", kverrors.GetErrorCode(err), "details", kverrors.GetErrorDetails(err))
		return
	}

	if _, err := io.WriteString(conn, reply); err != nil {
		s.log.Errorw("write reply failed", "error", err)
	}
}

// logBadRequest logs a malformed request through the error taxonomy
// rather than a bare string, so the request's code and field context
// show up in structured logs.
func (s *Server) logBadRequest(err error) {
	s.log.Errorw("bad request", "code", kverrors.GetErrorCode(err), "details", kverrors.GetErrorDetails(err))
}

// logEngineFailure logs an engine-layer failure, distinguishing storage
// errors (which carry segment/offset context) from any other failure.
func (s *Server) logEngineFailure(op, key string, err error) {
	if se, ok := kverrors.AsStorageError(err); ok {
		s.log.Errorw(op+" failed", "key", key, "error", err,
			"code", se.Code(), "segment", se.SegmentId(), "offset", se.Offset())
		return
	}
	s.log.Errorw(op+" failed", "key", key, "error", err, "code", kverrors.GetErrorCode(err))
}
