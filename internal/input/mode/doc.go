// Package mode provides the editor's input-mode state machine.
//
// zcode has four input modes:
//   - Normal: default text editing and navigation
//   - Completion: a completion popup has suggestions open
//   - Dialog: a modal dialog (find/replace, confirm) owns input focus
//   - Command Palette: the fuzzy command palette is open
//
// # Architecture
//
// The mode system is built around the Mode interface, which defines the
// contract for all editor modes. The Manager coordinates mode transitions
// and maintains mode history.
//
// # Mode Lifecycle
//
//	┌─────────┐    Enter()    ┌─────────┐
//	│ Mode A  │ ───────────▶ │ Mode B  │
//	└─────────┘              └─────────┘
//	     │                        │
//	     │  Exit()                │
//	     ◀────────────────────────┘
//
// When switching modes:
// 1. Current mode's Exit() is called
// 2. New mode's Enter() is called
// 3. Mode change callbacks are notified
//
package mode
