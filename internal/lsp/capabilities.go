package lsp

import "encoding/json"

// Capability is a bitmask of LSP features a running server has
// advertised via its initialize response. Requests for the methods listed
// in methodProfiles are gated on one of these bits.
type Capability uint32

const (
	CapCompletion Capability = 1 << iota
	CapHover
	CapDefinition
	CapReferences
	CapRename
	CapCodeAction
	CapFormat
	CapRangeFormat
	CapDocumentSymbol
	CapWorkspaceSymbol
	CapSemanticTokens
	CapInlayHint
	CapFoldingRange
	CapSignatureHelp
	CapDiagnosticsPull
)

// Has reports whether all bits in want are set in c.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// defaultPositionEncoding is used when the server's initialize response
// omits positionEncoding, per the LSP 3.17 default.
const defaultPositionEncoding = "utf-16"

// clientCapabilities builds the capabilities object sent with
// initialize: document synchronization plus every feature this package
// implements, so the server's response tells us exactly which of our
// Capability bits it actually supports.
func clientCapabilities() map[string]any {
	return map[string]any{
		"textDocument": map[string]any{
			"synchronization": map[string]any{
				"didSave":   true,
				"willSave":  false,
				"dynamicRegistration": false,
			},
			"completion": map[string]any{
				"completionItem": map[string]any{
					"snippetSupport": true,
					"resolveSupport": map[string]any{
						"properties": []string{"documentation", "detail", "additionalTextEdits"},
					},
				},
			},
			"hover":             map[string]any{"contentFormat": []string{"markdown", "plaintext"}},
			"definition":        map[string]any{},
			"references":        map[string]any{},
			"rename":            map[string]any{"prepareSupport": true},
			"codeAction":        map[string]any{},
			"formatting":        map[string]any{},
			"rangeFormatting":   map[string]any{},
			"documentSymbol":    map[string]any{"hierarchicalDocumentSymbolSupport": true},
			"semanticTokens":    map[string]any{"requests": map[string]any{"full": true}},
			"inlayHint":         map[string]any{},
			"foldingRange":      map[string]any{},
			"signatureHelp":     map[string]any{},
			"publishDiagnostics": map[string]any{"relatedInformation": true},
		},
		"workspace": map[string]any{
			"symbol":               map[string]any{},
			"workspaceFolders":     true,
			"applyEdit":            true,
			"didChangeWatchedFiles": map[string]any{"dynamicRegistration": false},
		},
		"general": map[string]any{
			"positionEncodings": []string{"utf-16", "utf-8"},
		},
	}
}

// serverCapabilitiesWire is the subset of the initialize result this
// package inspects; fields it doesn't recognize are ignored by
// json.Unmarshal.
type serverCapabilitiesWire struct {
	Capabilities struct {
		HoverProvider                   any `json:"hoverProvider"`
		CompletionProvider              any `json:"completionProvider"`
		DefinitionProvider               any `json:"definitionProvider"`
		ReferencesProvider                any `json:"referencesProvider"`
		RenameProvider                     any `json:"renameProvider"`
		CodeActionProvider                 any `json:"codeActionProvider"`
		DocumentFormattingProvider         any `json:"documentFormattingProvider"`
		DocumentRangeFormattingProvider     any `json:"documentRangeFormattingProvider"`
		DocumentSymbolProvider             any `json:"documentSymbolProvider"`
		WorkspaceSymbolProvider            any `json:"workspaceSymbolProvider"`
		SemanticTokensProvider             any `json:"semanticTokensProvider"`
		InlayHintProvider                  any `json:"inlayHintProvider"`
		FoldingRangeProvider               any `json:"foldingRangeProvider"`
		SignatureHelpProvider              any `json:"signatureHelpProvider"`
		DiagnosticProvider                 any `json:"diagnosticProvider"`
		PositionEncoding                   string `json:"positionEncoding"`
	} `json:"capabilities"`
}

// parseServerCapabilities decodes an initialize result body into a
// Capability bitmask and the negotiated position encoding.
func parseServerCapabilities(result json.RawMessage) (Capability, string) {
	var wire serverCapabilitiesWire
	if err := json.Unmarshal(result, &wire); err != nil {
		return 0, defaultPositionEncoding
	}

	var caps Capability
	set := func(bit Capability, v any) {
		if truthy(v) {
			caps |= bit
		}
	}
	c := wire.Capabilities
	set(CapHover, c.HoverProvider)
	set(CapCompletion, c.CompletionProvider)
	set(CapDefinition, c.DefinitionProvider)
	set(CapReferences, c.ReferencesProvider)
	set(CapRename, c.RenameProvider)
	set(CapCodeAction, c.CodeActionProvider)
	set(CapFormat, c.DocumentFormattingProvider)
	set(CapRangeFormat, c.DocumentRangeFormattingProvider)
	set(CapDocumentSymbol, c.DocumentSymbolProvider)
	set(CapWorkspaceSymbol, c.WorkspaceSymbolProvider)
	set(CapSemanticTokens, c.SemanticTokensProvider)
	set(CapInlayHint, c.InlayHintProvider)
	set(CapFoldingRange, c.FoldingRangeProvider)
	set(CapSignatureHelp, c.SignatureHelpProvider)
	set(CapDiagnosticsPull, c.DiagnosticProvider)

	encoding := c.PositionEncoding
	if encoding == "" {
		encoding = defaultPositionEncoding
	}
	return caps, encoding
}

// truthy reports whether a decoded JSON value represents an enabled
// provider: LSP servers advertise a feature either as a bare `true` or
// as a non-null options object; `false`, `nil`, and absent fields mean
// disabled.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}
