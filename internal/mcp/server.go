package mcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"lifesuite/internal/auth"
	"lifesuite/internal/metrics"
	"lifesuite/internal/operations"
)

// ServerName is reported in the initialize result.
const ServerName = "lifesuite"

// MCPServer answers MCP requests against the operation catalog.
// HandleMessage is safe for concurrent use; Start drives a single stdio session.
type MCPServer struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	writeMu sync.Mutex

	logger     *slog.Logger
	version    string
	dispatcher *operations.Dispatcher
	gate       *auth.Gate
	recorder   metrics.Recorder
	tools      []Tool

	// session is the stdio caller's authorization, set by Authenticate.
	session *auth.Result
}

// Option configures an MCPServer.
type Option func(*MCPServer)

// WithRecorder records operation calls and stdio authorization outcomes.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *MCPServer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewMCPServer creates a server for the given dispatcher. gate is only
// needed by Authenticate and may be nil for HTTP use.
func NewMCPServer(version string, dispatcher *operations.Dispatcher, gate *auth.Gate, logger *slog.Logger, opts ...Option) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &MCPServer{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		logger:     logger,
		version:    version,
		dispatcher: dispatcher,
		gate:       gate,
		recorder:   metrics.NoOp{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tools = buildTools(dispatcher.Operations())
	return s
}

// Authenticate authorizes the stdio session once with the operator's token.
func (s *MCPServer) Authenticate(token string) error {
	if s.gate == nil {
		return errors.New("no auth gate configured")
	}
	result := s.gate.Authorize(token)
	s.recorder.RecordAuth(context.Background(), result.Outcome())
	if !result.Authorized {
		s.logger.Warn("stdio session not authorized", "reason", result.ErrorCode)
		return &MCPError{Code: Unauthorized, Message: result.ErrorMessage}
	}
	s.session = result
	return nil
}

// Start runs the stdio message loop until stdin is closed or ctx is done.
// Cancellation is observed between messages.
func (s *MCPServer) Start(ctx context.Context) error {
	s.logger.Info("MCP server starting",
		"version", s.version,
		"tools", len(s.tools),
	)

	if s.session != nil {
		ctx = auth.WithResult(ctx, s.session)
	}

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("MCP server shutting down", "reason", err.Error())
			return nil
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}
			var perr *parseError
			if errors.As(err, &perr) {
				s.logger.Warn("Error parsing message", "error", err.Error())
				if werr := s.writeMessage(NewErrorMessage(nil, ParseError, "Parse error", nil)); werr != nil {
					return werr
				}
				continue
			}
			s.logger.Error("Error reading message", "error", err.Error())
			return err
		}

		response := s.HandleMessage(ctx, msg)
		if response == nil {
			continue
		}
		if err := s.writeMessage(response); err != nil {
			s.logger.Error("Error writing response", "error", err.Error())
			return err
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *MCPServer) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *MCPServer) SetStdout(w io.Writer) {
	s.stdout = w
}

// Tools returns the tool definitions advertised by tools/list.
func (s *MCPServer) Tools() []Tool {
	out := make([]Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

