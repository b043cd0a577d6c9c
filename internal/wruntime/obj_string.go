package wruntime

// ObjString is an owned, immutable byte buffer with a precomputed FNV-1a
// hash (§3). Strings are created by the lexer/parser (literals), by MATH_ADD
// concatenation, and directly through the embedding API.
type ObjString struct {
	header
	Bytes []byte
	Hash  uint32
}

func (s *ObjString) String() string { return string(s.Bytes) }

// fnv1a32 computes the 32-bit FNV-1a hash used for string identity checks
// in Equal and for the instance field map's hash table.
func fnv1a32(b []byte) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for _, c := range b {
		h ^= uint32(c)
		h *= prime32
	}
	return h
}
