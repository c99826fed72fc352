package rpc

import (
	"encoding/json"
	"fmt"
)

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
	// ErrCodeRequestCancelled is LSP's extension for $/cancelRequest.
	ErrCodeRequestCancelled = -32800
)

// Message is a JSON-RPC 2.0 request, response, or notification. Exactly
// one of (Method, Result, Error) is meaningful for a given message: a
// request has ID and Method; a response has ID and Result or Error; a
// notification has Method and no ID.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// IsRequest reports whether m is a request awaiting a response.
func (m Message) IsRequest() bool {
	return m.ID != nil && m.Method != ""
}

// IsResponse reports whether m is a response to a prior request.
func (m Message) IsResponse() bool {
	return m.ID != nil && m.Method == "" && (m.Result != nil || m.Error != nil)
}

// IsNotification reports whether m is a notification (no reply expected).
func (m Message) IsNotification() bool {
	return m.ID == nil && m.Method != ""
}

// NewRequest builds a request message with id and method, marshaling
// params (which may be nil).
func NewRequest(id int64, method string, params any) (Message, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return Message{}, err
	}
	return Message{JSONRPC: "2.0", ID: &id, Method: method, Params: raw}, nil
}

// NewNotification builds a notification message.
func NewNotification(method string, params any) (Message, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return Message{}, err
	}
	return Message{JSONRPC: "2.0", Method: method, Params: raw}, nil
}

// NewResponse builds a successful response to id.
func NewResponse(id int64, result any) (Message, error) {
	raw, err := marshalParams(result)
	if err != nil {
		return Message{}, err
	}
	return Message{JSONRPC: "2.0", ID: &id, Result: raw}, nil
}

// NewErrorResponse builds an error response to id.
func NewErrorResponse(id int64, code int64, msg string) Message {
	return Message{JSONRPC: "2.0", ID: &id, Error: &Error{Code: code, Message: msg}}
}

func marshalParams(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal: %w", err)
	}
	return data, nil
}
