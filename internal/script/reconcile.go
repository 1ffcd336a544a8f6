package script

import (
	"strings"

	"github.com/twop/shelv/internal/bytespan"
	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/textstructure"
)

// LLMRequest describes a pending ai/llm-lane render the reconciliation
// pass could not perform synchronously: it names the output block to
// stream chunks into and the position to insert them at (spec.md §4.5).
type LLMRequest struct {
	SourceHash     string
	Body           string
	OutputSpan     bytespan.Span
	InsertionPoint int
}

// Result is what a reconciliation pass produces: text changes ready to
// run through the change engine, plus any LLM requests the caller must
// dispatch and later stream back in via chunk insertions at
// InsertionPoint (re-resolved against the buffer after each change).
type Result struct {
	Changes     []change.Change
	LLMRequests []LLMRequest
}

// Reconcile implements spec.md §4.5's algorithm: collect every js/ai/llm
// code block in document order, decide whether re-evaluation is needed,
// and if so render each source block with jsEval and emit inserts/replaces
// so every source is immediately followed by a matching-hash output.
// Orphan output blocks (no preceding source) are left untouched. forced
// bypasses the "is it needed" check (e.g. the user explicitly re-ran the
// note).
func Reconcile(
	ts *textstructure.TextStructure,
	text string,
	jsEval func(body string) (string, error),
	forced bool,
) (Result, bool) {
	blocks := textstructure.FilterMapCodeBlocks(ts, ParseBlockLang)
	if len(blocks) == 0 {
		return Result{}, false
	}

	if !forced && !needsReconcile(ts, text, blocks) {
		return Result{}, false
	}

	w := &walker{ts: ts, text: text, jsEval: jsEval}
	for _, b := range blocks {
		w.visit(b)
	}
	w.finish()

	if len(w.changes) == 0 && len(w.requests) == 0 {
		return Result{}, false
	}

	return Result{Changes: w.changes, LLMRequests: w.requests}, true
}

// needsReconcile applies spec.md §4.5's trigger rule: an odd block count,
// or any adjacent (source, output) pair whose hashes disagree (or whose
// output hash failed to parse), forces reconciliation.
func needsReconcile(ts *textstructure.TextStructure, text string, blocks []textstructure.CodeBlockResult[ParsedLang]) bool {
	if len(blocks)%2 != 0 {
		return true
	}

	for i := 0; i+1 < len(blocks); i += 2 {
		src, out := blocks[i], blocks[i+1]
		if src.Result.Kind != BlockSource || out.Result.Kind != BlockOutput {
			return true
		}

		if !out.Result.HashOK {
			return true
		}

		if ContentHashHex(blockBody(ts, text, src.Index)) != out.Result.Hash {
			return true
		}
	}

	return false
}

// blockBody returns a code block's current inner content with the
// newline that ends its last content line (which the block's Text child
// includes) trimmed off.
func blockBody(ts *textstructure.TextStructure, text string, idx textstructure.SpanIndex) string {
	inner, ok := ts.GetSpanInnerContent(idx)
	if !ok {
		return ""
	}

	return strings.TrimSuffix(text[inner.Start:inner.End], "\n")
}

type pendingSource struct {
	hash   string
	body   string
	engine Engine
	span   bytespan.Span
}

type walker struct {
	ts       *textstructure.TextStructure
	text     string
	jsEval   func(body string) (string, error)
	pending  *pendingSource
	changes  []change.Change
	requests []LLMRequest
}

func (w *walker) visit(b textstructure.CodeBlockResult[ParsedLang]) {
	switch b.Result.Kind {
	case BlockSource:
		if w.pending != nil {
			w.synthesizeOutput(*w.pending)
		}

		body := blockBody(w.ts, w.text, b.Index)
		w.pending = &pendingSource{
			hash:   ContentHashHex(body),
			body:   body,
			engine: b.Result.Engine,
			span:   b.Desc.Span,
		}
	case BlockOutput:
		if w.pending == nil {
			return // orphan output, preserved untouched
		}

		w.reconcileOutput(*w.pending, b)
		w.pending = nil
	}
}

func (w *walker) finish() {
	if w.pending != nil {
		w.synthesizeOutput(*w.pending)
		w.pending = nil
	}
}

// synthesizeOutput handles a source block with no trailing output: insert
// a freshly rendered one (js) or an empty shell plus a streaming request
// (ai/llm).
func (w *walker) synthesizeOutput(p pendingSource) {
	fence := "```" + p.engine.Tag() + "#" + p.hash

	if p.engine != EngineJS {
		block := "\n" + fence + "\n" + "```"
		insertAt := p.span.End
		w.changes = append(w.changes, change.Change{Range: bytespan.Point(insertAt), Replacement: block})
		w.requests = append(w.requests, LLMRequest{
			SourceHash:     p.hash,
			Body:           p.body,
			OutputSpan:     bytespan.New(insertAt+1, insertAt+1+len(fence)+1+len("```")),
			InsertionPoint: insertAt + 1 + len(fence) + 1,
		})

		return
	}

	rendered, err := w.jsEval(p.body)
	if err != nil {
		rendered = renderError(err)
	}

	block := "\n" + fence + "\n" + rendered + "\n```"
	w.changes = append(w.changes, change.Change{Range: bytespan.Point(p.span.End), Replacement: block})
}

// reconcileOutput handles a source block immediately followed by an
// output block: re-render (js) or schedule streaming (ai/llm), replacing
// the output's content only if it actually differs.
func (w *walker) reconcileOutput(p pendingSource, out textstructure.CodeBlockResult[ParsedLang]) {
	if p.engine != EngineJS {
		inner, ok := w.ts.GetSpanInnerContent(out.Index)
		insertionPoint := out.Desc.Span.End - len("```")

		if ok && inner.Len() > 0 {
			insertionPoint = inner.End
		}

		w.requests = append(w.requests, LLMRequest{
			SourceHash:     p.hash,
			Body:           p.body,
			OutputSpan:     out.Desc.Span,
			InsertionPoint: insertionPoint,
		})

		return
	}

	rendered, err := w.jsEval(p.body)
	if err != nil {
		rendered = renderError(err)
	}

	current := blockBody(w.ts, w.text, out.Index)
	if current == rendered {
		return
	}

	fence := "```" + p.engine.Tag() + "#" + p.hash
	w.changes = append(w.changes, change.Change{Range: out.Desc.Span, Replacement: fence + "\n" + rendered + "\n```"})
}

func renderError(err error) string {
	return "error: " + err.Error()
}

// EscapeStreamChunk escapes an accidental closing fence inside a streamed
// LLM chunk so it cannot prematurely terminate the enclosing output block
// (spec.md §4.5).
func EscapeStreamChunk(chunk string) string {
	return strings.ReplaceAll(chunk, "```", "-```")
}
