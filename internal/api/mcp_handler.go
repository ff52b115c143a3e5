package api

import (
	"encoding/json"
	"io"
	"net/http"

	"lifesuite/internal/mcp"
)

// handleMCP answers one JSON-RPC message posted to /mcp. The bearer
// middleware has already put the caller's authorization in the context.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, mcp.MaxMessageSize))
	if err != nil {
		WriteJSON(w, mcp.NewErrorMessage(nil, mcp.InvalidRequest, "Request body too large or unreadable", nil), http.StatusRequestEntityTooLarge)
		return
	}

	var msg mcp.MCPMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		WriteJSON(w, mcp.NewErrorMessage(nil, mcp.ParseError, "Parse error", nil), http.StatusBadRequest)
		return
	}

	response := s.mcp.HandleMessage(r.Context(), &msg)
	if response == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	WriteJSON(w, response, http.StatusOK)
}
