package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// VocabHash hashes the variable and function vocabularies. Both lists are
// part of the cache key because the engine's output depends on which names
// it treats as symbols versus opaque functions.
func VocabHash(variables, functions []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(variables, ",")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(functions, ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// Key returns the content-addressed cache key for one fragment. The body is
// NFC-normalized first so that visually identical input hashes identically
// regardless of its unicode encoding form.
func Key(body, vocabHash string, optLevel int) string {
	h := sha256.New()
	h.Write([]byte(norm.NFC.String(body)))
	h.Write([]byte{0})
	h.Write([]byte(vocabHash))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d", optLevel)
	return hex.EncodeToString(h.Sum(nil))
}
