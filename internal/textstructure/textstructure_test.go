package textstructure_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twop/shelv/internal/textstructure"
)

func TestInvariantParentBeforeChildAndSpanContainment(t *testing.T) {
	text := "# Title\n\nSome **bold** and *em* text.\n\n- a\n- b\n\t- c\n"
	ts := textstructure.New(text)

	for i, s := range ts.Spans {
		if i == 0 {
			continue
		}
		require.Less(t, int(s.Parent), i, "parent must precede child at %d", i)
		parent, ok := ts.Span(s.Parent)
		require.True(t, ok)
		require.GreaterOrEqual(t, s.Span.Start, parent.Span.Start)
		require.LessOrEqual(t, s.Span.End, parent.Span.End)
	}
}

func TestHeadingSpan(t *testing.T) {
	ts := textstructure.New("## Hello world")
	idx, desc, ok := ts.FindSpanAt(textstructure.Heading, 5)
	require.True(t, ok)
	assert.Equal(t, 2, desc.HeadingLevel)

	content, ok := ts.GetSpanInnerContent(idx)
	require.True(t, ok)
	assert.Equal(t, "Hello world", ts.Text()[content.Start:content.End])
}

func TestBoldInnerContentTrim(t *testing.T) {
	ts := textstructure.New("plain **bold** plain")
	idx, _, ok := ts.FindSpanAt(textstructure.Bold, 9)
	require.True(t, ok)
	content, ok := ts.GetSpanInnerContent(idx)
	require.True(t, ok)
	assert.Equal(t, "bold", ts.Text()[content.Start:content.End])
}

func TestTaskMarkerMeta(t *testing.T) {
	ts := textstructure.New("- [x] done\n- [ ] todo\n")
	idx, desc, meta, ok := ts.FindSurroundingSpanWithMeta(textstructure.TaskMarker, 2)
	require.True(t, ok)
	tm, ok := meta.(textstructure.TaskMarkerMeta)
	require.True(t, ok)
	assert.True(t, tm.Checked)
	assert.Equal(t, textstructure.TaskMarker, desc.Kind)
	_ = idx
}

func TestCheckedTaskMarkerAddsStrikeAnnotation(t *testing.T) {
	ts := textstructure.New("- [x] done\n")
	found := false
	for _, p := range ts.AnnotationPoints {
		if p.Style == textstructure.StyleStrike {
			found = true
		}
	}
	assert.True(t, found, "expected a strike annotation pair for the checked item")
}

func TestOrderedListStartingIndex(t *testing.T) {
	ts := textstructure.New("3. a\n4. b\n")
	idx, desc, ok := ts.FindSpanAt(textstructure.List, 1)
	require.True(t, ok)
	meta, ok := ts.Metadata[idx].(textstructure.ListMeta)
	require.True(t, ok)
	require.NotNil(t, meta.StartingIndex)
	assert.Equal(t, uint64(3), *meta.StartingIndex)
	assert.Equal(t, textstructure.List, desc.Kind)
}

func TestNestedListDepth(t *testing.T) {
	ts := textstructure.New("- a\n- b\n\t- c\n\t\t1. d\n")
	// find the deepest ordered list
	var foundOrdered bool
	for i, s := range ts.Spans {
		if s.Kind == textstructure.List {
			if meta, ok := ts.Metadata[textstructure.SpanIndex(i)].(textstructure.ListMeta); ok && meta.StartingIndex != nil {
				foundOrdered = true
			}
		}
	}
	assert.True(t, foundOrdered)
}

func TestRawLinkAutolink(t *testing.T) {
	ts := textstructure.New("see https://example.com for more")
	require.Len(t, ts.RawLinks, 1)
	assert.Equal(t, "https://example.com", ts.RawLinks[0].URL)

	part := ts.FindInteractiveTextPart(ts.RawLinks[0].Span.Start + 1)
	assert.Equal(t, textstructure.InteractiveLink, part.Kind)
	assert.Equal(t, "https://example.com", part.URL)
}

func TestMdLinkMetadata(t *testing.T) {
	ts := textstructure.New("a [link](http://x.com/y) b")
	idx, desc, ok := ts.FindSpanAt(textstructure.MdLink, 5)
	require.True(t, ok)
	meta, ok := ts.Metadata[idx].(textstructure.LinkMeta)
	require.True(t, ok)
	assert.Equal(t, "http://x.com/y", meta.URL)
	assert.Equal(t, "link", ts.Text()[desc.Span.Start:desc.Span.End])
}

func TestCodeBlockLangAndFilterMap(t *testing.T) {
	ts := textstructure.New("before\n```js\nconsole.log(1)\n```\nafter\n")
	results := textstructure.FilterMapCodeBlocks(ts, func(lang string) (string, bool) {
		if lang == "js" {
			return lang, true
		}

		return "", false
	})
	require.Len(t, results, 1)
	assert.Equal(t, "js", results[0].Meta.Lang)
}

func TestRecycleBumpsGeneration(t *testing.T) {
	ts := textstructure.New("hello")
	g1 := ts.Generation
	ts.Recycle("hello world")
	assert.Greater(t, ts.Generation, g1)
}

func TestIterateParentsAndChildren(t *testing.T) {
	ts := textstructure.New("- a\n\t- b\n")
	listIdx, _, ok := ts.FindSpanAt(textstructure.List, 1)
	require.True(t, ok)
	children := ts.IterateImmediateChildrenOf(listIdx)
	require.Len(t, children, 1)
	assert.Equal(t, textstructure.ListItem, children[0].Desc.Kind)

	rec := ts.IterateChildrenRecursivelyOf(listIdx)
	assert.Greater(t, len(rec), 1)
}

func TestFindAnySpanAtExcludesRoot(t *testing.T) {
	ts := textstructure.New("plain text")
	idx, desc, ok := ts.FindAnySpanAt(2)
	require.True(t, ok)
	assert.NotEqual(t, textstructure.RootIndex, idx)
	assert.Equal(t, textstructure.Text, desc.Kind)
}

func TestDeepEqualSpanSliceAcrossRecycle(t *testing.T) {
	ts := textstructure.New("# a\n")
	first := append([]textstructure.SpanDesc(nil), ts.Spans...)
	ts.Recycle("# a\n")
	if diff := cmp.Diff(first, ts.Spans); diff != "" {
		t.Fatalf("expected identical spans after recycling identical text:\n%s", diff)
	}
}
