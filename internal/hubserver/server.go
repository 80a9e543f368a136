package hubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/martinemde/askhub/internal/question"
)

// Asker is the part of the arbiter the server needs.
type Asker interface {
	AskQuestion(q *question.Question, blocking bool) any
}

// Server listens on a unix socket and turns each connection's request into a
// question for the hub. Connections are handled concurrently; serializing
// the questions onto the terminal is the arbiter's job, not ours.
type Server struct {
	socketPath string
	asker      Asker
	log        *zap.Logger
	listener   net.Listener
	done       chan struct{}
}

// New creates a server asking through asker. An empty socketPath picks a
// per-process default in the temp directory. A nil logger disables logging.
func New(socketPath string, asker Asker, log *zap.Logger) *Server {
	if socketPath == "" {
		socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("askhub-%d.sock", os.Getpid()))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		socketPath: socketPath,
		asker:      asker,
		log:        log,
		done:       make(chan struct{}),
	}
}

// SocketPath returns the path of the unix socket.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for connections.
func (s *Server) Start(ctx context.Context) error {
	// Remove any stale socket file from a previous run.
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	s.listener = listener
	s.log.Info("listening for producers", zap.String("socket", s.socketPath))

	go s.acceptLoop(ctx)

	return nil
}

// Stop closes the server and removes the socket.
func (s *Server) Stop() {
	close(s.done)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	_ = os.Remove(s.socketPath)
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	decoder := json.NewDecoder(conn)
	var req Request
	if err := decoder.Decode(&req); err != nil {
		s.reply(conn, &Response{Status: StatusError, Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	q, err := buildQuestion(req)
	if err != nil {
		s.reply(conn, &Response{Status: StatusError, Error: err.Error()})
		return
	}

	s.log.Debug("producer asked a question",
		zap.Stringer("mode", q.Mode),
		zap.String("title", q.Title),
		zap.Bool("blocking", req.Blocking))

	// Blocking already waits inside AskQuestion; for a queued question we
	// wait on the question ourselves so the producer still gets its answer.
	s.asker.AskQuestion(q, req.Blocking)
	<-q.Done()

	s.reply(conn, answerResponse(q))
}

func (s *Server) reply(conn net.Conn, resp *Response) {
	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(resp); err != nil {
		s.log.Debug("failed to send response", zap.Error(err))
	}
}

// buildQuestion converts a wire request to a question.
func buildQuestion(req Request) (*question.Question, error) {
	mode, err := question.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, fmt.Errorf("question title is required")
	}

	q := question.New(mode, req.Title, req.Text)
	if req.Default == "" {
		return q, nil
	}
	if mode == question.YesNo {
		switch req.Default {
		case "yes":
			q.Default = true
		case "no":
			q.Default = false
		default:
			return nil, fmt.Errorf("yesno default must be yes or no, got %q", req.Default)
		}
		return q, nil
	}
	q.Default = req.Default
	return q, nil
}

// answerResponse converts a completed question to a wire response.
func answerResponse(q *question.Question) *Response {
	if q.Aborted() {
		return &Response{Status: StatusAborted}
	}
	resp := &Response{Status: StatusAnswered, Answer: &Answer{}}
	switch answer := q.Answer().(type) {
	case bool:
		resp.Answer.Accepted = &answer
	case string:
		resp.Answer.Value = answer
	case question.Auth:
		resp.Answer.User = answer.User
		resp.Answer.Password = answer.Password
	case question.FileTarget:
		resp.Answer.Value = answer.Path
	case question.OpenWithTarget:
		cmdline := answer.Cmdline
		resp.Answer.OpenWith = &cmdline
	}
	return resp
}
