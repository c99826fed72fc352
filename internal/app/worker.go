package app

import (
	"context"
	"os"
	"sync"

	"github.com/zcode-editor/zcode/internal/reducer"
)

// worker performs reducer.Effects off the UI thread, per spec.md §5's
// split between the single-threaded reduce loop and its I/O. Most
// effects are genuinely slow (disk, subprocess, network) and run on
// their own goroutine with the outcome fed back through submit as a
// follow-up Action; ApplyWorkspaceEditEffect is the one exception (see
// Dispatch below).
type worker struct {
	state   *reducer.State
	files   reducer.FileOps
	lsp     *sessionPool
	submit  func(reducer.Action)
	onSaved func(path string)

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

func newWorker(state *reducer.State, lsp *sessionPool, submit func(reducer.Action), onSaved func(path string)) *worker {
	return &worker{
		state:   state,
		files:   osFileOps{},
		lsp:     lsp,
		submit:  submit,
		onSaved: onSaved,
		cancels: make(map[int64]context.CancelFunc),
	}
}

// Dispatch implements reducer.Loop's Dispatch field. It is always called
// synchronously from the UI thread (reduceAndDispatch), right after
// Reduce returns and before any goroutine runs. ApplyWorkspaceEditEffect
// is handled right here, inline, rather than handed to a goroutine:
// editapply.Apply walks State.Documents through documentProvider, and
// that slice is mutated elsewhere (AddDocument, CloseActiveDocument)
// without a lock, so it is only safe to touch from this same thread.
// Every other effect is genuine I/O and is safe to hand off.
func (w *worker) Dispatch(effects []reducer.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case reducer.ApplyWorkspaceEditEffect:
			w.applyWorkspaceEdit(e)
		case reducer.SaveFile:
			go w.saveFile(e)
		case reducer.OpenFile:
			go w.openFile(e)
		case reducer.InvokeLsp:
			go w.invokeLsp(e)
		case reducer.CancelLsp:
			w.cancelLsp(e)
		case reducer.NotifyLsp:
			go w.notifyLsp(e)
		}
	}
}

func (w *worker) applyWorkspaceEdit(e reducer.ApplyWorkspaceEditEffect) {
	// A failed edit just leaves buffers as they were; there's no retry or
	// user-facing diagnostic surface for it yet.
	_, _ = w.state.ApplyWorkspaceEdit(w.files, e.Edit)
}

func (w *worker) saveFile(e reducer.SaveFile) {
	err := os.WriteFile(e.Path, []byte(e.Content), 0o644)
	if err == nil && w.onSaved != nil {
		w.onSaved(e.Path)
	}
	w.submit(reducer.Action{
		Name:     reducer.ActionFileSaved,
		Args:     map[string]any{"path": e.Path, "error": err},
		Priority: reducer.PriorityHigh,
	})
}

func (w *worker) openFile(e reducer.OpenFile) {
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return
	}
	w.submit(reducer.Action{
		Name:     reducer.ActionOpenFile,
		Args:     map[string]any{"path": e.Path, "content": string(data)},
		Priority: reducer.PriorityHigh,
	})
}

func (w *worker) invokeLsp(e reducer.InvokeLsp) {
	ctx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	w.cancels[e.RequestID] = cancel
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		delete(w.cancels, e.RequestID)
		w.mu.Unlock()
		cancel()
	}()

	session, configured, err := w.lsp.get(ctx, e.Language, e.RootPath)
	if !configured || err != nil {
		return
	}

	result, err := session.Request(ctx, e.Method, e.Params)
	w.submit(reducer.Action{
		Name: reducer.ActionLspReply,
		Args: map[string]any{
			"requestId": e.RequestID,
			"purpose":   e.Purpose,
			"result":    result,
			"error":     err,
		},
		Priority: reducer.LspReplyPriority(e.Purpose),
	})
}

func (w *worker) cancelLsp(e reducer.CancelLsp) {
	w.mu.Lock()
	cancel, ok := w.cancels[e.RequestID]
	w.mu.Unlock()
	if ok {
		cancel()
	}
}

func (w *worker) notifyLsp(e reducer.NotifyLsp) {
	session, configured, err := w.lsp.get(context.Background(), e.Language, e.RootPath)
	if !configured || err != nil {
		return
	}
	var params any
	if len(e.Params) > 0 {
		params = e.Params
	}
	_ = session.Notify(e.Method, params)
}
