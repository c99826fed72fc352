package lsp

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zcode-editor/zcode/internal/rpc"
)

// fakeServerProcess pairs an in-memory pipe with a goroutine speaking
// just enough JSON-RPC to drive Session through a handshake, a few
// requests, and (optionally) a simulated crash.
type fakeServerProcess struct {
	stdinW  *io.PipeWriter // Session writes here
	stdinR  *io.PipeReader // fake server reads here
	stdoutW *io.PipeWriter // fake server writes here
	stdoutR *io.PipeReader // Session reads here
	exitCh  chan error

	mu         sync.Mutex
	lastParams map[string]json.RawMessage
}

func newFakeServerProcess() *fakeServerProcess {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	return &fakeServerProcess{
		stdinW: inW, stdinR: inR,
		stdoutW: outW, stdoutR: outR,
		exitCh:     make(chan error, 1),
		lastParams: make(map[string]json.RawMessage),
	}
}

// LastParams returns the most recently observed params for method, and
// whether any message with that method has been seen at all.
func (p *fakeServerProcess) LastParams(method string) (json.RawMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.lastParams[method]
	return v, ok
}

func (p *fakeServerProcess) Stdin() io.WriteCloser { return p.stdinW }
func (p *fakeServerProcess) Stdout() io.Reader      { return p.stdoutR }
func (p *fakeServerProcess) Wait() error            { return <-p.exitCh }
func (p *fakeServerProcess) Kill() error {
	select {
	case p.exitCh <- nil:
	default:
	}
	return nil
}

// crash closes the server's ends of both pipes, which surfaces as EOF
// to Session's reader and unblocks Wait().
func (p *fakeServerProcess) crash() {
	_ = p.stdoutW.Close()
	_ = p.stdinR.Close()
	select {
	case p.exitCh <- io.ErrUnexpectedEOF:
	default:
	}
}

// serve runs a minimal fake language server: it answers initialize
// with the given capabilities result, acks shutdown, echoes an empty
// result for everything else, and records every request/notification
// method it observes.
func (p *fakeServerProcess) serve(t *testing.T, initResult json.RawMessage) (methods chan string) {
	methods = make(chan string, 64)
	r := rpc.NewReader(p.stdinR, nil)
	w := rpc.NewWriter(p.stdoutW)
	go func() {
		for {
			msg, err := r.Next()
			if err != nil {
				return
			}
			select {
			case methods <- msg.Method:
			default:
			}
			if len(msg.Params) > 0 {
				p.mu.Lock()
				p.lastParams[msg.Method] = msg.Params
				p.mu.Unlock()
			}
			if msg.IsNotification() {
				continue
			}
			if msg.Method == "initialize" {
				resp, _ := rpc.NewResponse(*msg.ID, json.RawMessage(initResult))
				_ = w.Write(resp)
				continue
			}
			resp, _ := rpc.NewResponse(*msg.ID, map[string]any{})
			_ = w.Write(resp)
		}
	}()
	return methods
}

type fakeSpawner struct {
	procs []*fakeServerProcess
	idx   int
}

func (f *fakeSpawner) Spawn(ctx context.Context, command string, args []string, dir string) (Process, error) {
	p := f.procs[f.idx]
	if f.idx < len(f.procs)-1 {
		f.idx++
	}
	return p, nil
}

const fullCaps = `{"capabilities":{"hoverProvider":true,"completionProvider":{},"definitionProvider":true}}`

func TestStartPerformsHandshakeAndSetsCapabilities(t *testing.T) {
	proc := newFakeServerProcess()
	proc.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{LanguageID: "go", RootPath: "/tmp/proj", Spawner: &fakeSpawner{procs: []*fakeServerProcess{proc}}})
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	require.Equal(t, StateRunning, s.State())
	require.True(t, s.Capabilities().Has(CapHover))
	require.True(t, s.Capabilities().Has(CapCompletion))
	require.True(t, s.Capabilities().Has(CapDefinition))
	require.False(t, s.Capabilities().Has(CapRename))
}

func TestRequestRejectsUnsupportedCapability(t *testing.T) {
	proc := newFakeServerProcess()
	proc.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{LanguageID: "go", RootPath: "/tmp/proj", Spawner: &fakeSpawner{procs: []*fakeServerProcess{proc}}})
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	_, err := s.Request(context.Background(), "textDocument/rename", map[string]any{})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestRequestSucceedsForSupportedCapability(t *testing.T) {
	proc := newFakeServerProcess()
	proc.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{LanguageID: "go", RootPath: "/tmp/proj", Spawner: &fakeSpawner{procs: []*fakeServerProcess{proc}}})
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	result, err := s.Request(context.Background(), "textDocument/hover", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "{}", string(result))
}

func TestChangeDocumentCoalescesIntoOneDidChange(t *testing.T) {
	proc := newFakeServerProcess()
	methods := proc.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{LanguageID: "go", RootPath: "/tmp/proj", Spawner: &fakeSpawner{procs: []*fakeServerProcess{proc}}})
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	require.NoError(t, s.OpenDocument("/tmp/proj/main.go", "go", "package main"))
	waitForMethod(t, methods, "textDocument/didOpen", time.Second)

	require.NoError(t, s.ChangeDocument("/tmp/proj/main.go", "package main\n"))
	require.NoError(t, s.ChangeDocument("/tmp/proj/main.go", "package main\n\nfunc main() {}"))

	waitForMethod(t, methods, "textDocument/didChange", time.Second)

	seen := collectFor(methods, 100*time.Millisecond)
	require.NotContains(t, seen, "textDocument/didChange",
		"expected coalesced edits to produce exactly one didChange")
}

func TestChangeDocumentBeforeOpenFails(t *testing.T) {
	proc := newFakeServerProcess()
	proc.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{LanguageID: "go", RootPath: "/tmp/proj", Spawner: &fakeSpawner{procs: []*fakeServerProcess{proc}}})
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	err := s.ChangeDocument("/tmp/proj/untracked.go", "x")
	require.ErrorIs(t, err, ErrDocumentNotOpen)
}

func TestCrashRestartsAndResyncsDocuments(t *testing.T) {
	first := newFakeServerProcess()
	firstMethods := first.serve(t, json.RawMessage(fullCaps))
	second := newFakeServerProcess()
	secondMethods := second.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{
		LanguageID: "go",
		RootPath:   "/tmp/proj",
		Spawner:    &fakeSpawner{procs: []*fakeServerProcess{first, second}},
		Backoff:    BackoffConfig{Initial: 10 * time.Millisecond, Max: 20 * time.Millisecond},
	})
	require.NoError(t, s.Start(context.Background()))
	defer s.Shutdown(context.Background())

	require.NoError(t, s.OpenDocument("/tmp/proj/main.go", "go", "package main"))
	require.NoError(t, s.ChangeDocument("/tmp/proj/main.go", "package main\n\nfunc main() {}"))
	waitForMethod(t, firstMethods, "textDocument/didChange", time.Second)

	first.crash()

	require.Eventually(t, func() bool {
		return s.State() == StateRunning
	}, 2*time.Second, 5*time.Millisecond)

	waitForMethod(t, secondMethods, "textDocument/didOpen", time.Second)

	params, ok := second.LastParams("textDocument/didOpen")
	require.True(t, ok)
	var decoded struct {
		TextDocument struct {
			Version uint64 `json:"version"`
		} `json:"textDocument"`
	}
	require.NoError(t, json.Unmarshal(params, &decoded))
	require.Equal(t, uint64(1), decoded.TextDocument.Version, "resync must resend the document's real current version, not 0")
}

func TestShutdownSendsShutdownThenExit(t *testing.T) {
	proc := newFakeServerProcess()
	methods := proc.serve(t, json.RawMessage(fullCaps))

	s := NewSession(Config{LanguageID: "go", RootPath: "/tmp/proj", Spawner: &fakeSpawner{procs: []*fakeServerProcess{proc}}})
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Shutdown(context.Background()))
	require.Equal(t, StateStopped, s.State())

	seen := collectFor(methods, 300*time.Millisecond)
	require.Contains(t, seen, "shutdown")
	require.Contains(t, seen, "exit")
}

// waitForMethod consumes methods until it sees want, failing the test
// if d elapses first. Unrelated messages (initialize, initialized, a
// prior test's leftovers) are discarded.
func waitForMethod(t *testing.T, methods chan string, want string, d time.Duration) {
	t.Helper()
	deadline := time.After(d)
	for {
		select {
		case m := <-methods:
			if m == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for method %q", want)
		}
	}
}

// collectFor gathers every message that arrives within d.
func collectFor(methods chan string, d time.Duration) []string {
	var out []string
	deadline := time.After(d)
	for {
		select {
		case m := <-methods:
			out = append(out, m)
		case <-deadline:
			return out
		}
	}
}
