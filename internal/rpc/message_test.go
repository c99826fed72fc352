package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRequestMarshalsParams(t *testing.T) {
	msg, err := NewRequest(7, "textDocument/hover", map[string]int{"line": 3})
	require.NoError(t, err)
	require.True(t, msg.IsRequest())
	require.False(t, msg.IsResponse())
	require.False(t, msg.IsNotification())

	var params map[string]int
	require.NoError(t, json.Unmarshal(msg.Params, &params))
	require.Equal(t, 3, params["line"])
}

func TestNewNotificationHasNoID(t *testing.T) {
	msg, err := NewNotification("textDocument/didChange", nil)
	require.NoError(t, err)
	require.Nil(t, msg.ID)
	require.True(t, msg.IsNotification())
	require.False(t, msg.IsRequest())
}

func TestNewResponseCarriesResult(t *testing.T) {
	msg, err := NewResponse(7, []string{"a", "b"})
	require.NoError(t, err)
	require.True(t, msg.IsResponse())

	var result []string
	require.NoError(t, json.Unmarshal(msg.Result, &result))
	require.Equal(t, []string{"a", "b"}, result)
}

func TestNewErrorResponseIsAResponse(t *testing.T) {
	msg := NewErrorResponse(7, ErrCodeMethodNotFound, "unknown method")
	require.True(t, msg.IsResponse())
	require.Equal(t, int64(ErrCodeMethodNotFound), msg.Error.Code)
	require.Equal(t, "rpc error -32601: unknown method", msg.Error.Error())
}
