package mcp

import (
	"context"
	"fmt"
	"time"

	"lifesuite/internal/auth"
	"lifesuite/internal/errors"
	"lifesuite/internal/metrics"
)

// HandleMessage processes one incoming message and returns the response,
// or nil when none is due (notifications and client responses).
// The caller's authorization, if any, travels in ctx (see auth.WithResult).
func (s *MCPServer) HandleMessage(ctx context.Context, msg *MCPMessage) *MCPMessage {
	if msg == nil {
		return NewErrorMessage(nil, InvalidRequest, "Invalid message: empty", nil)
	}

	// A method makes it a request or notification even if stray result or
	// error members came along.
	if msg.IsRequest() {
		return s.handleRequest(ctx, msg)
	}

	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}

	if msg.IsResponse() {
		s.logger.Debug("Ignoring client response", "id", msg.Id)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *MCPServer) handleRequest(ctx context.Context, msg *MCPMessage) *MCPMessage {
	s.logger.Debug("Handling request",
		"method", msg.Method,
		"id", msg.Id,
	)

	switch msg.Method {
	case "initialize":
		return NewResultMessage(msg.Id, s.handleInitialize(paramsOf(msg)))
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{"tools": s.tools})
	case "tools/call":
		return s.handleCallToolRequest(ctx, msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

// handleNotification handles a JSON-RPC notification
func (s *MCPServer) handleNotification(msg *MCPMessage) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("Client initialized")
	default:
		s.logger.Debug("Unknown notification",
			"method", msg.Method,
		)
	}
}

func paramsOf(msg *MCPMessage) map[string]interface{} {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return params
}

// handleCallToolRequest authorizes, decodes and dispatches a tools/call.
func (s *MCPServer) handleCallToolRequest(ctx context.Context, msg *MCPMessage) *MCPMessage {
	result, ok := auth.FromContext(ctx)
	if !ok || !result.HasScope(auth.ScopeTools) {
		err := errors.NewAuthenticationError("tools/call requires an authorized session")
		return NewErrorMessage(msg.Id, Unauthorized, err.Message, err)
	}

	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}

	name, ok := params["name"].(string)
	if !ok || name == "" {
		err := errors.NewInvalidParameterError("name", "expected a non-empty string")
		return NewErrorMessage(msg.Id, InvalidParams, err.Message, err)
	}

	label := s.operationLabel(name)

	args, err := stringArguments(params["arguments"])
	if err != nil {
		s.recorder.RecordOperation(ctx, label, metrics.StatusError)
		return s.errorResponse(msg.Id, err)
	}

	s.logger.Info("Calling tool",
		"tool", name,
		"client", result.ClientID,
	)

	start := time.Now()
	report, err := s.dispatcher.Dispatch(ctx, name, args)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	s.recorder.RecordOperation(ctx, label, status)
	s.recorder.RecordDuration(ctx, label, time.Since(start), status)

	if err != nil {
		s.logger.Warn("Tool call failed",
			"tool", name,
			"code", string(errors.CodeOf(err)),
			"error", err.Error(),
		)
		return s.errorResponse(msg.Id, err)
	}

	return NewResultMessage(msg.Id, textResult(report))
}

// operationLabel bounds the metric label set to the catalog; any other
// name a caller sends is counted as metrics.OperationUnknown.
func (s *MCPServer) operationLabel(name string) string {
	if _, ok := s.dispatcher.Lookup(name); ok {
		return name
	}
	return metrics.OperationUnknown
}

// stringArguments converts tools/call arguments to the string map the
// dispatcher takes. JSON null is treated as absent; any other non-string
// value is rejected.
func stringArguments(raw interface{}) (map[string]string, error) {
	args := make(map[string]string)
	if raw == nil {
		return args, nil
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.NewInvalidParameterError("arguments", "expected an object")
	}
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
		case string:
			args[k] = val
		default:
			return nil, errors.NewInvalidParameterError(k, fmt.Sprintf("expected a string, got %T", v))
		}
	}
	return args, nil
}

// errorResponse maps a dispatch error to a JSON-RPC error; the structured
// error rides in data so clients can read data.code.
func (s *MCPServer) errorResponse(id interface{}, err error) *MCPMessage {
	e, ok := errors.AsError(err)
	if !ok {
		return NewErrorMessage(id, InternalError, err.Error(), nil)
	}

	switch e.Code {
	case errors.UnknownOperation, errors.MissingParameter, errors.InvalidParameter:
		return NewErrorMessage(id, InvalidParams, e.Message, e)
	case errors.AuthenticationFailed:
		return NewErrorMessage(id, Unauthorized, e.Message, e)
	default:
		return NewErrorMessage(id, InternalError, e.Message, e)
	}
}
