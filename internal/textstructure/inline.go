package textstructure

import "github.com/twop/shelv/internal/bytespan"

// parseInline scans text[start:end] for inline markdown constructs and
// appends their spans as children of parent, in document order.
//
//nolint:cyclop // inline dispatch is an inherently flat marker table
func (p *parser) parseInline(parent SpanIndex, start, end int) {
	text := p.text
	i := start
	textRunStart := -1

	flushText := func(upto int) {
		if textRunStart >= 0 && upto > textRunStart {
			p.appendSpan(SpanDesc{Kind: Text, Span: bytespan.New(textRunStart, upto), Parent: parent})
		}
		textRunStart = -1
	}

	for i < end {
		switch {
		case text[i] == '`':
			if j := indexFrom(text, "`", i+1, end); j >= 0 {
				flushText(i)
				idx := p.appendSpan(SpanDesc{Kind: InlineCode, Span: bytespan.New(i, j+1), Parent: parent})
				p.parseInline(idx, i+1, j)
				i = j + 1

				continue
			}
		case hasPrefixAt(text, "**", i) && i+2 < end:
			if j := indexFrom(text, "**", i+2, end); j >= 0 {
				flushText(i)
				idx := p.appendSpan(SpanDesc{Kind: Bold, Span: bytespan.New(i, j+2), Parent: parent})
				p.parseInline(idx, i+2, j)
				i = j + 2

				continue
			}
		case hasPrefixAt(text, "~~", i) && i+2 < end:
			if j := indexFrom(text, "~~", i+2, end); j >= 0 {
				flushText(i)
				idx := p.appendSpan(SpanDesc{Kind: Strike, Span: bytespan.New(i, j+2), Parent: parent})
				p.parseInline(idx, i+2, j)
				i = j + 2

				continue
			}
		case (text[i] == '*' || text[i] == '_') && i+1 < end && text[i+1] != ' ':
			marker := string(text[i])
			if j := indexFrom(text, marker, i+1, end); j >= 0 {
				flushText(i)
				idx := p.appendSpan(SpanDesc{Kind: Emphasis, Span: bytespan.New(i, j+1), Parent: parent})
				p.parseInline(idx, i+1, j)
				i = j + 1

				continue
			}
		case hasPrefixAt(text, "![", i):
			if close, urlStart, urlEnd, paren, ok := parseLinkLike(text, i+2, end); ok {
				flushText(i)
				idx := p.appendSpan(SpanDesc{Kind: Image, Span: bytespan.New(i+2, close), Parent: parent})
				p.ts.Metadata[idx] = LinkMeta{URL: text[urlStart:urlEnd]}
				p.linkRanges = append(p.linkRanges, bytespan.New(i, paren+1))
				i = paren + 1

				continue
			}
		case text[i] == '[':
			if close, urlStart, urlEnd, paren, ok := parseLinkLike(text, i+1, end); ok {
				flushText(i)
				idx := p.appendSpan(SpanDesc{Kind: MdLink, Span: bytespan.New(i+1, close), Parent: parent})
				p.ts.Metadata[idx] = LinkMeta{URL: text[urlStart:urlEnd]}
				p.linkRanges = append(p.linkRanges, bytespan.New(i, paren+1))
				i = paren + 1

				continue
			}
		case text[i] == '<':
			if j := htmlTagOpenRe.FindStringIndex(text[i:end]); j != nil && j[0] == 0 {
				flushText(i)
				p.appendSpan(SpanDesc{Kind: Html, Span: bytespan.New(i, i+j[1]), Parent: parent})
				i += j[1]

				continue
			}
		}

		if textRunStart == -1 {
			textRunStart = i
		}
		i++
	}
	flushText(end)
}

// parseLinkLike parses "text](url)" or "alt](url)" starting right after the
// opening bracket, returning the index of the closing ']', and the byte
// range of the URL inside the parens.
func parseLinkLike(text string, from, end int) (closeBracket, urlStart, urlEnd, parenIdx int, ok bool) {
	close := indexFrom(text, "]", from, end)
	if close < 0 || close+1 >= len(text) || text[close+1] != '(' {
		return 0, 0, 0, 0, false
	}
	urlStart = close + 2
	paren := indexFrom(text, ")", urlStart, len(text))
	if paren < 0 {
		return 0, 0, 0, 0, false
	}

	url := text[urlStart:paren]
	// Strip an optional quoted title: url "title"
	if sp := indexOfByte(url, ' '); sp >= 0 {
		url = url[:sp]
	}

	return close, urlStart, urlStart + len(url), paren, true
}

func indexFrom(s, sub string, from, end int) int {
	if from > end || from > len(s) {
		return -1
	}
	limit := end
	if limit > len(s) {
		limit = len(s)
	}
	rel := indexOf(s[from:limit], sub)
	if rel < 0 {
		return -1
	}

	return from + rel
}

func hasPrefixAt(s, prefix string, at int) bool {
	if at+len(prefix) > len(s) {
		return false
	}

	return s[at:at+len(prefix)] == prefix
}

func indexOf(s, sub string) int {
	n := len(sub)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if s[i:i+n] == sub {
			return i
		}
	}

	return -1
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}

	return -1
}

func (p *parser) runAutolinker() {
	matches := autolinkRe.FindAllStringIndex(p.text, -1)
	for _, m := range matches {
		if p.overlapsExcludedSpan(m[0], m[1]) {
			continue
		}
		p.ts.RawLinks = append(p.ts.RawLinks, RawLink{
			URL:  p.text[m[0]:m[1]],
			Span: bytespan.New(m[0], m[1]),
		})
	}
}

func (p *parser) overlapsExcludedSpan(start, end int) bool {
	cand := bytespan.New(start, end)
	for _, s := range p.ts.Spans {
		switch s.Kind {
		case CodeBlock, InlineCode, Html:
			if cand.Relate(s.Span).Overlaps() {
				return true
			}
		}
	}
	for _, r := range p.linkRanges {
		if cand.Relate(r).Overlaps() {
			return true
		}
	}

	return false
}
