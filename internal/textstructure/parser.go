package textstructure

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/twop/shelv/internal/bytespan"
)

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})[ \t]+`)
	unorderedRe   = regexp.MustCompile(`^[-*+][ \t]+`)
	orderedRe     = regexp.MustCompile(`^(\d+)[.)][ \t]+`)
	fenceRe       = regexp.MustCompile("^```([a-zA-Z0-9_+-]*)[ \t]*$")
	taskMarkerRe  = regexp.MustCompile(`^\[([ xX])\][ \t]*`)
	autolinkRe    = regexp.MustCompile(`https?://[^\s)\]<>]+`)
	htmlTagOpenRe = regexp.MustCompile(`^</?[a-zA-Z][a-zA-Z0-9-]*[^>]*>`)
)

type line struct {
	// start/end delimit the line's content, excluding the trailing
	// newline. depth is the count of leading tabs (spec.md uses tabs,
	// exclusively, to encode list nesting depth).
	start, end int
	depth      int
	// nlLen is the byte width of the newline that follows this line (0 for
	// the final line if the buffer doesn't end with one).
	nlLen int
}

type parser struct {
	ts      *TextStructure
	text    string
	lines   []line
	lineIdx int
	// linkRanges records the full raw syntax range of each MdLink/Image
	// ("[text](url)"/"![alt](url)") so the auto-linker can skip URLs that
	// are already part of markdown link syntax, even though the MdLink
	// span itself covers only the display text (see GetSpanInnerContent).
	linkRanges []bytespan.Span
}

// Recycle rebuilds the structure from new text, reusing backing vectors
// where possible (spec.md §4.1 "recycle ... reuses backing vectors").
func (ts *TextStructure) Recycle(text string) {
	ts.text = text
	ts.Spans = ts.Spans[:0]
	if ts.Metadata == nil {
		ts.Metadata = make(map[SpanIndex]any)
	} else {
		for k := range ts.Metadata {
			delete(ts.Metadata, k)
		}
	}
	ts.RawLinks = ts.RawLinks[:0]
	ts.AnnotationPoints = ts.AnnotationPoints[:0]
	ts.Generation++

	p := &parser{ts: ts, text: text, lines: splitLines(text)}
	rootIdx := p.appendSpan(SpanDesc{Kind: Root, Span: bytespan.New(0, len(text)), Parent: RootIndex})

	for p.lineIdx < len(p.lines) {
		if p.currentIsBlank() {
			p.lineIdx++

			continue
		}
		p.parseBlockAtDepth(rootIdx, 0)
	}

	p.runAutolinker()
	ts.buildAnnotationPoints()
}

func splitLines(text string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, line{start: start, end: i, nlLen: 1, depth: countTabs(text, start, i)})
			start = i + 1
		}
	}
	if start < len(text) || len(text) == 0 {
		lines = append(lines, line{start: start, end: len(text), nlLen: 0, depth: countTabs(text, start, len(text))})
	}

	return lines
}

func countTabs(text string, start, end int) int {
	n := 0
	for i := start; i < end && text[i] == '\t'; i++ {
		n++
	}

	return n
}

func (p *parser) appendSpan(d SpanDesc) SpanIndex {
	idx := SpanIndex(len(p.ts.Spans))
	p.ts.Spans = append(p.ts.Spans, d)

	return idx
}

func (p *parser) currentIsBlank() bool {
	if p.lineIdx >= len(p.lines) {
		return true
	}
	l := p.lines[p.lineIdx]

	return strings.TrimSpace(p.text[l.start:l.end]) == ""
}

func (p *parser) bodyAt(idx int) (body string, depth int) {
	l := p.lines[idx]
	depth = l.depth

	return p.text[l.start+depth : l.end], depth
}

// parseBlockAtDepth dispatches one block at the given depth. Depths other
// than 0 only occur while parsing list item continuations.
func (p *parser) parseBlockAtDepth(parent SpanIndex, depth int) {
	body, lineDepth := p.bodyAt(p.lineIdx)
	if lineDepth != depth {
		return
	}

	switch {
	case depth == 0 && fenceRe.MatchString(body):
		p.parseCodeBlock(parent)
	case depth == 0 && headingRe.MatchString(body):
		p.parseHeading(parent)
	case unorderedRe.MatchString(body) || orderedRe.MatchString(body):
		p.parseList(parent, depth)
	default:
		p.parseParagraph(parent, depth)
	}
}

func (p *parser) parseHeading(parent SpanIndex) {
	l := p.lines[p.lineIdx]
	m := headingRe.FindStringSubmatchIndex(p.text[l.start:l.end])
	level := m[3] - m[2]
	contentStart := l.start + m[1]
	headingIdx := p.appendSpan(SpanDesc{
		Kind:         Heading,
		Span:         bytespan.New(l.start, l.end),
		Parent:       parent,
		HeadingLevel: level,
	})
	p.parseInline(headingIdx, contentStart, l.end)
	p.lineIdx++
}

func (p *parser) parseCodeBlock(parent SpanIndex) {
	l := p.lines[p.lineIdx]
	m := fenceRe.FindStringSubmatch(p.text[l.start:l.end])
	lang := m[1]
	start := l.start
	p.lineIdx++
	contentStart := -1
	contentEnd := -1
	end := l.end
	for p.lineIdx < len(p.lines) {
		cur := p.lines[p.lineIdx]
		text := p.text[cur.start:cur.end]
		if strings.TrimRight(text, " \t") == "```" {
			end = cur.end
			p.lineIdx++

			break
		}
		if contentStart == -1 {
			contentStart = cur.start
		}
		contentEnd = cur.end + cur.nlLen
		end = cur.end
		p.lineIdx++
	}
	if contentStart == -1 {
		contentStart = start
		contentEnd = start
	}

	idx := p.appendSpan(SpanDesc{Kind: CodeBlock, Span: bytespan.New(start, end), Parent: parent})
	p.ts.Metadata[idx] = CodeBlockMeta{Lang: lang}
	p.appendSpan(SpanDesc{Kind: Text, Span: bytespan.New(contentStart, contentEnd), Parent: idx})
}

func (p *parser) parseParagraph(parent SpanIndex, depth int) {
	start := p.lines[p.lineIdx].start
	end := p.lines[p.lineIdx].end
	paraIdx := p.appendSpan(SpanDesc{Kind: Paragraph, Parent: parent})

	for p.lineIdx < len(p.lines) {
		body, d := p.bodyAt(p.lineIdx)
		if d != depth || strings.TrimSpace(body) == "" ||
			headingRe.MatchString(body) || fenceRe.MatchString(body) ||
			unorderedRe.MatchString(body) || orderedRe.MatchString(body) {
			break
		}
		end = p.lines[p.lineIdx].end
		p.lineIdx++
	}

	p.ts.Spans[paraIdx].Span = bytespan.New(start, end)
	p.parseInline(paraIdx, start, end)
}

// parseList consumes a run of sibling list items at depth (and any deeper
// nested lists under them), appending a single List span and its
// ListItem children.
func (p *parser) parseList(parent SpanIndex, depth int) SpanIndex {
	firstBody, _ := p.bodyAt(p.lineIdx)
	ordered := orderedRe.MatchString(firstBody)

	listIdx := p.appendSpan(SpanDesc{Kind: List, Parent: parent})
	var startingIndex *uint64
	if ordered {
		m := orderedRe.FindStringSubmatch(firstBody)
		n, _ := strconv.ParseUint(m[1], 10, 64)
		startingIndex = &n
	}
	p.ts.Metadata[listIdx] = ListMeta{StartingIndex: startingIndex}

	listStart := p.lines[p.lineIdx].start
	listEnd := listStart

	for p.lineIdx < len(p.lines) {
		if p.currentIsBlank() {
			break
		}
		body, d := p.bodyAt(p.lineIdx)
		if d != depth {
			break
		}
		isOrdered := orderedRe.MatchString(body)
		isUnordered := unorderedRe.MatchString(body)
		if !isOrdered && !isUnordered {
			break
		}
		if isOrdered != ordered {
			break
		}

		itemIdx := p.parseListItem(listIdx, depth)
		_, end := p.ts.Spans[itemIdx].Span.Start, p.ts.Spans[itemIdx].Span.End
		listEnd = end
	}

	p.ts.Spans[listIdx].Span = bytespan.New(listStart, listEnd)

	return listIdx
}

func (p *parser) parseListItem(parent SpanIndex, depth int) SpanIndex {
	l := p.lines[p.lineIdx]
	body, _ := p.bodyAt(p.lineIdx)

	var markerLen int
	if m := orderedRe.FindStringIndex(body); m != nil {
		markerLen = m[1]
	} else {
		m := unorderedRe.FindStringIndex(body)
		markerLen = m[1]
	}

	contentStart := l.start + depth + markerLen
	itemIdx := p.appendSpan(SpanDesc{Kind: ListItem, Parent: parent})
	end := l.end
	p.lineIdx++

	content := p.text[contentStart:end]
	childStart := contentStart
	if tm := taskMarkerRe.FindStringSubmatch(content); tm != nil {
		markerSpan := bytespan.New(contentStart, contentStart+len(tm[0]))
		tIdx := p.appendSpan(SpanDesc{Kind: TaskMarker, Span: markerSpan, Parent: itemIdx})
		checked := tm[1] == "x" || tm[1] == "X"
		p.ts.Metadata[tIdx] = TaskMarkerMeta{Checked: checked}
		childStart = markerSpan.End
	}
	p.parseInline(itemIdx, childStart, end)

	// Nested sub-lists: subsequent lines indented deeper than this item.
	for p.lineIdx < len(p.lines) {
		if p.currentIsBlank() {
			break
		}
		_, d := p.bodyAt(p.lineIdx)
		if d <= depth {
			break
		}
		nestedIdx := p.parseList(itemIdx, depth+1)
		if nestedEnd := p.ts.Spans[nestedIdx].Span.End; nestedEnd > end {
			end = nestedEnd
		}
	}

	p.ts.Spans[itemIdx].Span = bytespan.New(l.start, end)

	return itemIdx
}
