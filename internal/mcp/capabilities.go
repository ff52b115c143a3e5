package mcp

// ServerCapabilities represents the capabilities exposed by the MCP server
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability represents the tools capability
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo identifies the server to clients
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult represents the result of the initialize request
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// SupportedProtocolVersions lists the protocol revisions this server speaks,
// newest first.
var SupportedProtocolVersions = []string{"2025-03-26", "2024-11-05"}

// negotiateProtocolVersion echoes the client's version when supported and
// otherwise offers the newest one.
func negotiateProtocolVersion(requested string) string {
	for _, v := range SupportedProtocolVersions {
		if v == requested {
			return v
		}
	}
	return SupportedProtocolVersions[0]
}

func (s *MCPServer) handleInitialize(params map[string]interface{}) *InitializeResult {
	requested, _ := params["protocolVersion"].(string)
	s.logger.Info("MCP server initializing",
		"clientInfo", params["clientInfo"],
		"protocolVersion", requested,
	)

	return &InitializeResult{
		ProtocolVersion: negotiateProtocolVersion(requested),
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: s.version,
		},
	}
}
