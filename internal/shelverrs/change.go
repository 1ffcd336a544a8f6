package shelverrs

import "fmt"

// OverlappingChangesError indicates a TextChange batch contained two or
// more edits whose target ranges overlap. The batch is discarded
// atomically; the buffer the caller passed in is left untouched.
type OverlappingChangesError struct {
	FirstStart, FirstEnd   int
	SecondStart, SecondEnd int
}

func (e *OverlappingChangesError) Error() string {
	return fmt.Sprintf(
		"overlapping text changes: [%d,%d) overlaps [%d,%d)",
		e.FirstStart, e.FirstEnd, e.SecondStart, e.SecondEnd,
	)
}
