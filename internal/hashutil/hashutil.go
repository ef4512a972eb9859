package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns a trimmed-input SHA-256 hash encoded in hex.
func SHA256Hex(input string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(input)))
	return hex.EncodeToString(sum[:])
}

// ArticleHash identifies an article across runs: by link when present,
// otherwise by feed and title.
func ArticleHash(feedTitle, title, link string) string {
	if link = strings.TrimSpace(link); link != "" {
		return SHA256Hex(link)
	}
	return SHA256Hex(strings.TrimSpace(feedTitle) + "\n" + strings.TrimSpace(title))
}
