package shelverrs

import "fmt"

// ParseSettingsError is attached to the specific settings block that failed
// to parse. Per spec.md §7, one block's failure never prevents the other
// blocks in the same note from applying; the caller renders this as an
// inline annotation at BlockIndex.
type ParseSettingsError struct {
	BlockIndex int
	Offset     int
	Err        error
}

func (e *ParseSettingsError) Error() string {
	return fmt.Sprintf("settings block %d: parse error at byte %d: %v", e.BlockIndex, e.Offset, e.Err)
}

func (e *ParseSettingsError) Unwrap() error {
	return e.Err
}
