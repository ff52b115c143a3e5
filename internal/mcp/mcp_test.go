package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"lifesuite/internal/auth"
	"lifesuite/internal/config"
	"lifesuite/internal/metrics"
	"lifesuite/internal/operations"
)

const (
	testSecret   = "Sup3r-Secret"
	testIdentity = "919876543210"
)

type recordedCall struct {
	operation string
	status    string
}

type fakeRecorder struct {
	mu       sync.Mutex
	calls    []recordedCall
	outcomes []string
}

func (f *fakeRecorder) RecordOperation(_ context.Context, operation, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{operation, status})
}

func (f *fakeRecorder) RecordDuration(context.Context, string, time.Duration, string) {}

func (f *fakeRecorder) RecordAuth(_ context.Context, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

// newTestMCPServer creates an MCP server with a fixed clock and no logging.
func newTestMCPServer(t *testing.T, opts ...Option) *MCPServer {
	t.Helper()

	gate, err := auth.NewGate(config.AuthConfig{Token: testSecret, Identity: testIdentity}, nil, nil)
	if err != nil {
		t.Fatalf("Failed to create gate: %v", err)
	}

	dispatcher, err := operations.NewDispatcher(gate, operations.WithClock(func() time.Time {
		return time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("Failed to create dispatcher: %v", err)
	}

	return NewMCPServer("test", dispatcher, gate, nil, opts...)
}

func authorizedContext() context.Context {
	return auth.WithResult(context.Background(), &auth.Result{
		Authorized: true,
		ClientID:   auth.ClientID,
		Scopes:     []auth.Scope{auth.ScopeAll},
	})
}

// sendRequest pushes one request through the stdio decoder and the handler.
func sendRequest(t *testing.T, ctx context.Context, server *MCPServer, method string, id int, params interface{}) *MCPMessage {
	t.Helper()

	request := MCPMessage{
		Jsonrpc: "2.0",
		Id:      id,
		Method:  method,
		Params:  params,
	}

	requestBytes, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	requestBytes = append(requestBytes, '\n')

	server.SetStdin(bytes.NewReader(requestBytes))
	server.SetStdout(&bytes.Buffer{})

	msg, err := server.readMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	return server.HandleMessage(ctx, msg)
}

// roundTrip re-decodes a response the way a client would see it.
func roundTrip(t *testing.T, msg *MCPMessage) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	return out
}

func callTool(t *testing.T, ctx context.Context, server *MCPServer, name string, args interface{}) *MCPMessage {
	t.Helper()
	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	return sendRequest(t, ctx, server, "tools/call", 7, params)
}

func reportText(t *testing.T, msg *MCPMessage) string {
	t.Helper()
	if msg.Error != nil {
		t.Fatalf("Unexpected error: %d %s", msg.Error.Code, msg.Error.Message)
	}
	result, ok := msg.Result.(*ToolResult)
	if !ok {
		t.Fatalf("Result should be a *ToolResult, got %T", msg.Result)
	}
	if result.IsError {
		t.Fatal("isError should be false")
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("Expected one text block, got %+v", result.Content)
	}
	return result.Content[0].Text
}

func errorDataCode(t *testing.T, msg *MCPMessage) string {
	t.Helper()
	out := roundTrip(t, msg)
	errObj, ok := out["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response should carry an error, got %v", out)
	}
	data, ok := errObj["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Error should carry data, got %v", errObj)
	}
	code, _ := data["code"].(string)
	return code
}

func TestInitializeMethod(t *testing.T) {
	server := newTestMCPServer(t)

	params := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "test-client",
			"version": "1.0.0",
		},
	}

	response := sendRequest(t, context.Background(), server, "initialize", 1, params)
	if response.Error != nil {
		t.Fatalf("Should not have error: %v", response.Error.Message)
	}

	result, ok := response.Result.(*InitializeResult)
	if !ok {
		t.Fatalf("Result should be an InitializeResult, got %T", response.Result)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("ProtocolVersion = %q, want echo of client version", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != ServerName || result.ServerInfo.Version != "test" {
		t.Errorf("Unexpected server info: %+v", result.ServerInfo)
	}
	if result.Capabilities.Tools == nil {
		t.Error("Tools capability should be advertised")
	}
}

func TestNegotiateProtocolVersion(t *testing.T) {
	if got := negotiateProtocolVersion("1999-01-01"); got != SupportedProtocolVersions[0] {
		t.Errorf("unsupported version negotiated to %q", got)
	}
	if got := negotiateProtocolVersion(""); got != SupportedProtocolVersions[0] {
		t.Errorf("empty version negotiated to %q", got)
	}
}

func TestPing(t *testing.T) {
	server := newTestMCPServer(t)

	response := sendRequest(t, context.Background(), server, "ping", 2, nil)
	if response.Error != nil {
		t.Fatalf("ping failed: %v", response.Error.Message)
	}
	if got := roundTrip(t, response)["result"]; got == nil {
		t.Error("ping should return an empty object result")
	}
}

func TestUnknownMethod(t *testing.T) {
	server := newTestMCPServer(t)

	response := sendRequest(t, context.Background(), server, "resources/list", 3, nil)
	if response.Error == nil || response.Error.Code != MethodNotFound {
		t.Fatalf("Expected MethodNotFound, got %+v", response.Error)
	}
}

func TestNotificationHasNoResponse(t *testing.T) {
	server := newTestMCPServer(t)

	msg := &MCPMessage{Jsonrpc: "2.0", Method: "notifications/initialized"}
	if resp := server.HandleMessage(context.Background(), msg); resp != nil {
		t.Errorf("Notification should not produce a response, got %+v", resp)
	}

	clientResponse := &MCPMessage{Jsonrpc: "2.0", Id: 9, Result: map[string]interface{}{}}
	if resp := server.HandleMessage(context.Background(), clientResponse); resp != nil {
		t.Errorf("Client response should be ignored, got %+v", resp)
	}
}

func TestInvalidMessage(t *testing.T) {
	server := newTestMCPServer(t)

	resp := server.HandleMessage(context.Background(), &MCPMessage{Jsonrpc: "2.0", Id: 4})
	if resp == nil || resp.Error == nil || resp.Error.Code != InvalidRequest {
		t.Fatalf("Expected InvalidRequest, got %+v", resp)
	}
	resp = server.HandleMessage(context.Background(), nil)
	if resp == nil || resp.Error == nil || resp.Error.Code != InvalidRequest {
		t.Fatalf("Expected InvalidRequest for nil message, got %+v", resp)
	}
}

func TestToolsList(t *testing.T) {
	server := newTestMCPServer(t)

	response := sendRequest(t, context.Background(), server, "tools/list", 5, nil)
	if response.Error != nil {
		t.Fatalf("tools/list failed: %v", response.Error.Message)
	}

	out := roundTrip(t, response)
	tools := out["result"].(map[string]interface{})["tools"].([]interface{})
	if len(tools) != len(operations.Catalog()) {
		t.Fatalf("Expected %d tools, got %d", len(operations.Catalog()), len(tools))
	}

	first := tools[0].(map[string]interface{})
	if first["name"] != operations.OpValidate {
		t.Errorf("First tool = %v, want %s", first["name"], operations.OpValidate)
	}

	byName := make(map[string]map[string]interface{})
	for _, raw := range tools {
		tool := raw.(map[string]interface{})
		byName[tool["name"].(string)] = tool
	}

	crypto := byName[operations.OpCryptoIntelligence]
	var desc toolDescription
	if err := json.Unmarshal([]byte(crypto["description"].(string)), &desc); err != nil {
		t.Fatalf("Description should be a JSON object: %v", err)
	}
	if desc.Description == "" || desc.UseWhen == "" {
		t.Errorf("Description should carry description and use_when: %+v", desc)
	}

	schema := crypto["inputSchema"].(map[string]interface{})
	required := schema["required"].([]interface{})
	if len(required) != 1 || required[0] != "crypto_name" {
		t.Errorf("required = %v, want [crypto_name]", required)
	}
	props := schema["properties"].(map[string]interface{})
	analysis := props["analysis_type"].(map[string]interface{})
	if analysis["type"] != "string" || analysis["default"] != "trend" {
		t.Errorf("analysis_type schema = %v", analysis)
	}

	validate := byName[operations.OpValidate]["inputSchema"].(map[string]interface{})
	if _, ok := validate["required"]; ok {
		t.Error("validate should have no required parameters")
	}
}

func TestToolsCallRequiresAuthorization(t *testing.T) {
	rec := &fakeRecorder{}
	server := newTestMCPServer(t, WithRecorder(rec))

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"no result", context.Background()},
		{"denied result", auth.WithResult(context.Background(), &auth.Result{ErrorCode: auth.ErrCodeInvalidToken})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := callTool(t, tt.ctx, server, operations.OpValidate, nil)
			if response.Error == nil || response.Error.Code != Unauthorized {
				t.Fatalf("Expected Unauthorized, got %+v", response.Error)
			}
			if code := errorDataCode(t, response); code != "AUTHENTICATION_FAILED" {
				t.Errorf("data.code = %q", code)
			}
		})
	}

	if len(rec.calls) != 0 {
		t.Errorf("Unauthorized calls should not reach dispatch, recorded %v", rec.calls)
	}
}

func TestToolsCallValidate(t *testing.T) {
	server := newTestMCPServer(t)

	for i := 0; i < 2; i++ {
		text := reportText(t, callTool(t, authorizedContext(), server, operations.OpValidate, nil))
		if text != testIdentity {
			t.Errorf("validate = %q, want %q", text, testIdentity)
		}
	}
}

func TestToolsCallReports(t *testing.T) {
	rec := &fakeRecorder{}
	server := newTestMCPServer(t, WithRecorder(rec))
	ctx := authorizedContext()

	btc := reportText(t, callTool(t, ctx, server, operations.OpCryptoIntelligence, map[string]interface{}{"crypto_name": "Bitcoin"}))
	if !strings.Contains(btc, "Bullish") || !strings.Contains(btc, "15-25% annually") {
		t.Errorf("Bitcoin report missing expected rules:\n%s", btc)
	}

	tiktok := reportText(t, callTool(t, ctx, server, operations.OpSocialMediaTrendPredictor, map[string]interface{}{
		"platform": "tiktok",
		"niche":    nil,
	}))
	if !strings.Contains(tiktok, "7-9 PM") {
		t.Errorf("tiktok report missing posting time:\n%s", tiktok)
	}

	if len(rec.calls) != 2 || rec.calls[0].status != "success" {
		t.Errorf("recorded calls = %v", rec.calls)
	}
}

func TestToolsCallErrors(t *testing.T) {
	rec := &fakeRecorder{}
	server := newTestMCPServer(t, WithRecorder(rec))
	ctx := authorizedContext()

	tests := []struct {
		name     string
		tool     string
		args     interface{}
		wantCode string
	}{
		{"unknown operation", "horoscope", nil, "UNKNOWN_OPERATION"},
		{"missing parameter", operations.OpNFTCreator, map[string]interface{}{"theme": "space"}, "MISSING_PARAMETER"},
		{"null required parameter", operations.OpNFTCreator, map[string]interface{}{"art_style": nil}, "MISSING_PARAMETER"},
		{"number argument", operations.OpCryptoIntelligence, map[string]interface{}{"crypto_name": 42}, "INVALID_PARAMETER"},
		{"bool argument", operations.OpCryptoIntelligence, map[string]interface{}{"crypto_name": "btc", "analysis_type": true}, "INVALID_PARAMETER"},
		{"arguments not an object", operations.OpValidate, []interface{}{"x"}, "INVALID_PARAMETER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := callTool(t, ctx, server, tt.tool, tt.args)
			if response.Error == nil || response.Error.Code != InvalidParams {
				t.Fatalf("Expected InvalidParams, got %+v", response.Error)
			}
			if code := errorDataCode(t, response); code != tt.wantCode {
				t.Errorf("data.code = %q, want %q", code, tt.wantCode)
			}
		})
	}

	for _, c := range rec.calls {
		if c.status != "error" {
			t.Errorf("failed call recorded as %q", c.status)
		}
	}
}

func TestToolsCallMissingName(t *testing.T) {
	server := newTestMCPServer(t)

	response := sendRequest(t, authorizedContext(), server, "tools/call", 8, map[string]interface{}{})
	if response.Error == nil || response.Error.Code != InvalidParams {
		t.Fatalf("Expected InvalidParams, got %+v", response.Error)
	}

	response = sendRequest(t, authorizedContext(), server, "tools/call", 9, nil)
	if response.Error == nil || response.Error.Code != InvalidParams {
		t.Fatalf("Expected InvalidParams for absent params, got %+v", response.Error)
	}
}

func TestAuthenticate(t *testing.T) {
	rec := &fakeRecorder{}
	server := newTestMCPServer(t, WithRecorder(rec))

	if err := server.Authenticate("wrong"); err == nil {
		t.Fatal("Authenticate should reject a wrong token")
	}
	if err := server.Authenticate(testSecret); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if len(rec.outcomes) != 2 || rec.outcomes[0] != auth.ErrCodeInvalidToken || rec.outcomes[1] != "granted" {
		t.Errorf("outcomes = %v", rec.outcomes)
	}
}

func TestStartStdioSession(t *testing.T) {
	server := newTestMCPServer(t)
	if err := server.Authenticate(testSecret); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"validate"}}`,
	}, "\n") + "\n"

	stdout := &bytes.Buffer{}
	server.SetStdin(strings.NewReader(input))
	server.SetStdout(stdout)

	if err := server.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	var responses []map[string]interface{}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatalf("Output line is not JSON: %q", scanner.Text())
		}
		responses = append(responses, m)
	}

	if len(responses) != 3 {
		t.Fatalf("Expected 3 responses (initialize, parse error, call), got %d", len(responses))
	}
	if responses[0]["id"] != float64(1) {
		t.Errorf("first response id = %v", responses[0]["id"])
	}
	parseErr := responses[1]["error"].(map[string]interface{})
	if parseErr["code"] != float64(ParseError) {
		t.Errorf("second response should be a parse error, got %v", responses[1])
	}
	content := responses[2]["result"].(map[string]interface{})["content"].([]interface{})
	if text := content[0].(map[string]interface{})["text"]; text != testIdentity {
		t.Errorf("validate text = %v", text)
	}
}

func TestStartStopsOnCancelledContext(t *testing.T) {
	server := newTestMCPServer(t)
	server.SetStdin(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n"))
	stdout := &bytes.Buffer{}
	server.SetStdout(stdout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := server.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("No messages should be processed after cancel, got %q", stdout.String())
	}
}

func TestReadMessageTooLarge(t *testing.T) {
	server := newTestMCPServer(t)
	server.SetStdin(strings.NewReader(strings.Repeat("x", MaxMessageSize+10) + "\n"))
	server.SetStdout(io.Discard)

	if err := server.Start(context.Background()); err == nil {
		t.Fatal("Oversized message should end the session with an error")
	}
}

func TestToolsReturnsCopy(t *testing.T) {
	server := newTestMCPServer(t)

	tools := server.Tools()
	tools[0].Name = "mutated"
	if server.Tools()[0].Name == "mutated" {
		t.Error("Tools should return a copy")
	}
}

func TestMCPMessageKinds(t *testing.T) {
	tests := []struct {
		name                         string
		msg                          MCPMessage
		request, notification, reply bool
	}{
		{"request", MCPMessage{Method: "ping", Id: 1}, true, false, false},
		{"notification", MCPMessage{Method: "notifications/initialized"}, false, true, false},
		{"result", MCPMessage{Id: 1, Result: "ok"}, false, false, true},
		{"error", MCPMessage{Id: 1, Error: &MCPError{Code: InternalError}}, false, false, true},
		{"request with stray result", MCPMessage{Method: "ping", Id: 1, Result: "x"}, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg.IsRequest() != tt.request {
				t.Errorf("IsRequest = %v", tt.msg.IsRequest())
			}
			if tt.msg.IsNotification() != tt.notification {
				t.Errorf("IsNotification = %v", tt.msg.IsNotification())
			}
			if tt.msg.IsResponse() != tt.reply {
				t.Errorf("IsResponse = %v", tt.msg.IsResponse())
			}
		})
	}
}

func TestRequestWithStrayResultIsAnswered(t *testing.T) {
	server := newTestMCPServer(t)

	msg := &MCPMessage{Jsonrpc: "2.0", Id: 3, Method: "ping", Result: "leftover"}
	response := server.HandleMessage(context.Background(), msg)
	if response == nil {
		t.Fatal("Expected a ping response")
	}
	if response.Error != nil {
		t.Errorf("Unexpected error: %+v", response.Error)
	}
}

func TestErrorReplyKeepsNullID(t *testing.T) {
	data, err := json.Marshal(NewErrorMessage(nil, ParseError, "Parse error", nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"id":null`) {
		t.Errorf("parse error reply lacks a null id: %s", data)
	}

	data, err = json.Marshal(NewResultMessage(4, map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"id":4`) || strings.Count(string(data), `"id"`) != 1 {
		t.Errorf("result reply id = %s", data)
	}

	data, err = json.Marshal(MCPMessage{Jsonrpc: "2.0", Method: "notifications/initialized"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Errorf("notification should carry no id: %s", data)
	}
}

func TestToolsCallRequiresToolsScope(t *testing.T) {
	rec := &fakeRecorder{}
	server := newTestMCPServer(t, WithRecorder(rec))

	ctx := auth.WithResult(context.Background(), &auth.Result{
		Authorized: true,
		ClientID:   auth.ClientID,
		Scopes:     []auth.Scope{"admin"},
	})
	response := callTool(t, ctx, server, operations.OpValidate, nil)
	if response.Error == nil || response.Error.Code != Unauthorized {
		t.Fatalf("Expected Unauthorized without the tools scope, got %+v", response.Error)
	}

	ctx = auth.WithResult(context.Background(), &auth.Result{
		Authorized: true,
		ClientID:   auth.ClientID,
		Scopes:     []auth.Scope{auth.ScopeTools},
	})
	if text := reportText(t, callTool(t, ctx, server, operations.OpValidate, nil)); text != testIdentity {
		t.Errorf("validate = %q, want %q", text, testIdentity)
	}
}

func TestToolsCallUnknownNamesShareOneLabel(t *testing.T) {
	rec := &fakeRecorder{}
	server := newTestMCPServer(t, WithRecorder(rec))
	ctx := authorizedContext()

	callTool(t, ctx, server, "bogus_0", nil)
	callTool(t, ctx, server, "bogus_1", map[string]interface{}{"x": 1})
	callTool(t, ctx, server, operations.OpValidate, nil)

	labels := make(map[string]bool)
	for _, c := range rec.calls {
		labels[c.operation] = true
	}
	want := map[string]bool{metrics.OperationUnknown: true, operations.OpValidate: true}
	if len(labels) != len(want) {
		t.Fatalf("operation labels = %v, want %v", labels, want)
	}
	for label := range want {
		if !labels[label] {
			t.Errorf("missing label %q in %v", label, labels)
		}
	}
}
