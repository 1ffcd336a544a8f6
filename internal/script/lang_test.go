package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twop/shelv/internal/script"
)

func TestParseBlockLangRecognizesSources(t *testing.T) {
	for _, lang := range []string{"js", "ai", "llm"} {
		parsed, ok := script.ParseBlockLang(lang)
		assert.True(t, ok, lang)
		assert.Equal(t, script.BlockSource, parsed.Kind, lang)
	}
}

func TestParseBlockLangRecognizesOutputs(t *testing.T) {
	parsed, ok := script.ParseBlockLang("js#1a2b")
	assert.True(t, ok)
	assert.Equal(t, script.BlockOutput, parsed.Kind)
	assert.Equal(t, script.EngineJS, parsed.Engine)
	assert.Equal(t, "1a2b", parsed.Hash)
	assert.True(t, parsed.HashOK)
}

func TestParseBlockLangFlagsUnparsableHash(t *testing.T) {
	parsed, ok := script.ParseBlockLang("js#not-hex")
	assert.True(t, ok)
	assert.False(t, parsed.HashOK)
}

func TestParseBlockLangNormalizesLegacyLlmAlias(t *testing.T) {
	parsed, ok := script.ParseBlockLang("llm#00aa")
	assert.True(t, ok)
	assert.Equal(t, script.EngineAI, parsed.Engine)
}

func TestParseBlockLangRejectsUnrelatedLanguages(t *testing.T) {
	_, ok := script.ParseBlockLang("go")
	assert.False(t, ok)
}

func TestContentHashHexIsDeterministicAndSensitiveToContent(t *testing.T) {
	assert.Equal(t, script.ContentHashHex("1+1"), script.ContentHashHex("1+1"))
	assert.NotEqual(t, script.ContentHashHex("1+1"), script.ContentHashHex("1+2"))
	assert.Len(t, script.ContentHashHex("x"), 4)
}
