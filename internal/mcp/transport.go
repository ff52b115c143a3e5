package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize is the maximum size for a single MCP message (1MB).
const MaxMessageSize = 1024 * 1024

// readMessage reads one newline-delimited JSON-RPC message from stdin.
// A line that is not valid JSON yields a non-nil error and a nil message.
func (s *MCPServer) readMessage() (*MCPMessage, error) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		s.scanner.Buffer(make([]byte, 64*1024), MaxMessageSize)
	}

	for {
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("error reading from stdin: %w", err)
			}
			return nil, io.EOF
		}
		if len(s.scanner.Bytes()) > 0 {
			break
		}
	}

	line := s.scanner.Bytes()
	s.logger.Debug("Received message", "bytes", len(line))

	var msg MCPMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return nil, &parseError{err: err}
	}

	return &msg, nil
}

// writeMessage writes one JSON-RPC message followed by a newline.
func (s *MCPServer) writeMessage(msg *MCPMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling JSON-RPC message: %w", err)
	}
	data = append(data, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.logger.Debug("Sending message", "bytes", len(data))

	if _, err := s.stdout.Write(data); err != nil {
		return fmt.Errorf("error writing to stdout: %w", err)
	}
	return nil
}

// parseError marks a line that could not be decoded; the loop answers it
// with a ParseError response instead of giving up.
type parseError struct {
	err error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("error parsing JSON-RPC message: %v", e.err)
}

func (e *parseError) Unwrap() error {
	return e.err
}
