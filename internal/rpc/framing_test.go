package rpc

import (
	"bytes"
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zcode-editor/zcode/internal/zlog"
)

func TestWriterThenReaderRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	req, err := NewRequest(1, "initialize", map[string]string{"rootUri": "file:///tmp"})
	require.NoError(t, err)
	require.NoError(t, w.Write(req))

	notif, err := NewNotification("textDocument/didOpen", nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(notif))

	r := NewReader(&buf, nil)

	got, err := r.Next()
	require.NoError(t, err)
	require.True(t, got.IsRequest())
	require.Equal(t, "initialize", got.Method)

	got, err = r.Next()
	require.NoError(t, err)
	require.True(t, got.IsNotification())
	require.Equal(t, "textDocument/didOpen", got.Method)

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderSkipsHeaderBlockWithoutContentLength(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("X-Custom: nonsense\r\n\r\n")

	body := `{"jsonrpc":"2.0","method":"ping"}`
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n\r\n")
	buf.WriteString(body)

	var logged bytes.Buffer
	log := zlog.New(zlog.Config{Level: zlog.LevelDebug, Output: &logged})

	r := NewReader(&buf, log)
	msg, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "ping", msg.Method)
	require.Contains(t, logged.String(), "no valid Content-Length")
}

func TestReaderSkipsMalformedJSONBodyAndContinues(t *testing.T) {
	var buf bytes.Buffer

	bad := `{not valid json`
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(bad)))
	buf.WriteString("\r\n\r\n")
	buf.WriteString(bad)

	good := `{"jsonrpc":"2.0","method":"ping"}`
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(good)))
	buf.WriteString("\r\n\r\n")
	buf.WriteString(good)

	var logged bytes.Buffer
	log := zlog.New(zlog.Config{Level: zlog.LevelDebug, Output: &logged})

	r := NewReader(&buf, log)
	msg, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "ping", msg.Method)
	require.Contains(t, logged.String(), "malformed JSON body")
}

func TestReaderIgnoresUnrelatedHeadersAndIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	body := `{"jsonrpc":"2.0","method":"ping"}`
	buf.WriteString("content-type: application/vscode-jsonrpc; charset=utf-8\r\n")
	buf.WriteString("content-length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\n\r\n")
	buf.WriteString(body)

	r := NewReader(&buf, nil)
	msg, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "ping", msg.Method)
}

func TestReaderReturnsEOFOnTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Content-Length: 100\r\n\r\n")
	buf.WriteString("short")

	r := NewReader(&buf, nil)
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderReturnsEOFOnEmptyStream(t *testing.T) {
	r := NewReader(&bytes.Buffer{}, nil)
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
}
