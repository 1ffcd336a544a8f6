package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twop/shelv/internal/change"
	"github.com/twop/shelv/internal/script"
	"github.com/twop/shelv/internal/textstructure"
)

func applyReconcile(t *testing.T, text string, result script.Result) string {
	t.Helper()

	out, _, err := change.Apply(text, nil, result.Changes)
	require.NoError(t, err)

	return out
}

func TestReconcileSynthesizesMissingJSOutput(t *testing.T) {
	text := "```js\n1+1\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	result, ok := script.Reconcile(ts, text, ip.Eval, false)
	require.True(t, ok)

	hash := script.ContentHashHex("1+1")
	want := text + "\n```js#" + hash + "\n2\n```"
	assert.Equal(t, want, applyReconcile(t, text, result))
	assert.Empty(t, result.LLMRequests)
}

func TestReconcileSynthesizesQuotedStringOutput(t *testing.T) {
	text := "```js\n'hello world' + '!'\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	result, ok := script.Reconcile(ts, text, ip.Eval, false)
	require.True(t, ok)

	hash := script.ContentHashHex("'hello world' + '!'")
	want := text + "\n```js#" + hash + "\n\"hello world!\"\n```"
	assert.Equal(t, want, applyReconcile(t, text, result))
}

func TestReconcileLeavesMatchingOutputUntouched(t *testing.T) {
	hash := script.ContentHashHex("1+1")
	text := "```js\n1+1\n```\n```js#" + hash + "\n2\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	_, ok := script.Reconcile(ts, text, ip.Eval, false)
	assert.False(t, ok, "already-consistent pair should need no reconciliation")
}

func TestReconcileReplacesStaleJSOutput(t *testing.T) {
	text := "```js\n1+1\n```\n```js#bad0\n3\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	result, ok := script.Reconcile(ts, text, ip.Eval, false)
	require.True(t, ok)

	out := applyReconcile(t, text, result)
	hash := script.ContentHashHex("1+1")
	assert.Equal(t, "```js\n1+1\n```\n```js#"+hash+"\n2\n```", out)
}

func TestReconcilePreservesOrphanOutputBlock(t *testing.T) {
	text := "```js#abcd\n5\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	_, ok := script.Reconcile(ts, text, ip.Eval, false)
	assert.False(t, ok, "a lone output block has no source to reconcile against")
}

func TestReconcileForcedRerunNoOpWhenAlreadyConsistent(t *testing.T) {
	hash := script.ContentHashHex("1+1")
	text := "```js\n1+1\n```\n```js#" + hash + "\n2\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	_, ok := script.Reconcile(ts, text, ip.Eval, true)
	assert.False(t, ok)
}

func TestReconcileSchedulesLLMRequestForAISource(t *testing.T) {
	text := "```ai\nwhat is 2+2?\n```"
	ts := textstructure.New(text)
	ip := script.NewInterpreter()

	result, ok := script.Reconcile(ts, text, ip.Eval, false)
	require.True(t, ok)
	require.Len(t, result.LLMRequests, 1)

	req := result.LLMRequests[0]
	assert.Equal(t, "what is 2+2?", req.Body)
	assert.Equal(t, script.ContentHashHex("what is 2+2?"), req.SourceHash)

	out := applyReconcile(t, text, result)
	assert.Contains(t, out, "```ai#"+req.SourceHash+"\n```")
}

func TestEscapeStreamChunkEscapesClosingFence(t *testing.T) {
	assert.Equal(t, "before -``` after", script.EscapeStreamChunk("before ``` after"))
}
