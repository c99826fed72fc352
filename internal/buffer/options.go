package buffer

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) { b.lineEnding = le }
}

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithLF configures Unix line endings (\n).
func WithLF() Option { return WithLineEnding(LineEndingLF) }

// WithCRLF configures Windows line endings (\r\n).
func WithCRLF() Option { return WithLineEnding(LineEndingCRLF) }

// WithCR configures old Mac line endings (\r).
func WithCR() Option { return WithLineEnding(LineEndingCR) }

// WithPath sets the buffer's filesystem path.
func WithPath(path string) Option {
	return func(b *Buffer) { b.path = path }
}

// WithLanguageID sets the buffer's language tag (e.g. "go", "rust").
func WithLanguageID(id string) Option {
	return func(b *Buffer) { b.languageID = id }
}

// WithCheckpointInterval overrides the history DAG's default checkpoint
// interval K (see internal/history.DefaultCheckpointInterval).
func WithCheckpointInterval(k int) Option {
	return func(b *Buffer) { b.checkpointInterval = k }
}

// DetectLineEnding returns the LineEnding most common in text, defaulting
// to LF if none is found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); {
		switch {
		case i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n':
			crlfCount++
			i += 2
		case text[i] == '\r':
			crCount++
			i++
		case text[i] == '\n':
			lfCount++
			i++
		default:
			i++
		}
	}

	if crlfCount >= lfCount && crlfCount >= crCount && crlfCount > 0 {
		return LineEndingCRLF
	}
	if crCount >= lfCount && crCount >= crlfCount && crCount > 0 {
		return LineEndingCR
	}
	return LineEndingLF
}

// WithDetectedLineEnding sets the line ending style detected from text,
// so that Save writes the content back with the ending it was loaded with.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}
