package project

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Digest is a SHA-256 content hash.
type Digest [32]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// HashContent digests one file's content.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// HashFiles digests a set of per-file hashes into one build key. Paths are
// sorted first so the result is independent of traversal order.
func HashFiles(files map[string]Digest) Digest {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		d := files[p]
		h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
