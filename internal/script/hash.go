package script

import "fmt"

// fnv1a16 folds a 32-bit FNV-1a hash of body down to 16 bits, giving the
// "16-bit hash of the source text" a reconciliation pass compares against
// an output block's recorded hash.
func fnv1a16(body string) uint16 {
	var h uint32 = 2166136261
	for i := 0; i < len(body); i++ {
		h ^= uint32(body[i])
		h *= 16777619
	}

	return uint16(h) ^ uint16(h>>16)
}

// ContentHashHex renders body's content hash in the "<lang>#<hex>" wire
// form's hex component (lowercase, zero-padded to 4 digits).
func ContentHashHex(body string) string {
	return fmt.Sprintf("%04x", fnv1a16(body))
}
