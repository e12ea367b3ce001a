package canonical

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheSize bounds the process-wide canonicalization cache. RDF
// canonicalization is the expensive path; a bounded LRU keeps repeated
// hashing of the same documents cheap without growing unboundedly.
const cacheSize = 1024

var rdfCache = newCache()

func newCache() *lru.Cache[string, string] {
	c, err := lru.New[string, string](cacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// cacheKey fingerprints a canonicalization request. The content component
// is the sha256 of the document's stable_json form, so key equality tracks
// value equality rather than key order or representation.
func cacheKey(provider, algorithm string, doc any) (string, bool) {
	enc, err := JSON(doc)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256([]byte(enc))
	return provider + "\x00" + algorithm + "\x00" + hex.EncodeToString(sum[:]), true
}
