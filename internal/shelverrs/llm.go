package shelverrs

import "fmt"

// LLMStreamError carries a failure from a streaming LLM request. Per
// spec.md §7 the chunk carrying this error is inserted as the block's
// output through the same path as a normal chunk; there is no retry.
type LLMStreamError struct {
	BlockHash string
	Err       error
}

func (e *LLMStreamError) Error() string {
	return fmt.Sprintf("llm stream %s: %v", e.BlockHash, e.Err)
}

func (e *LLMStreamError) Unwrap() error {
	return e.Err
}
