package slugify

import (
	"crypto/rand"
	"math/big"

	"github.com/gosimple/slug"
)

const (
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenLength   = 3

	categorySlugSuffix = "-picBetter"
)

// Make lowercases s and collapses every run of non-alphanumeric characters into a single dash.
func Make(s string) string {
	return slug.Make(s)
}

// Valid reports whether s is already in the form Make produces, so it can sit in a URL path segment.
func Valid(s string) bool {
	return s != "" && s == Make(s)
}

func RandomToken(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = tokenAlphabet[0]
			continue
		}
		b[i] = tokenAlphabet[idx.Int64()]
	}
	return string(b)
}

// Category builds the slug given to a category created without one. The random prefix lowers
// but does not remove the chance of a collision; the unique index on categories.slug reports it.
func Category(name string) string {
	return Make(RandomToken(tokenLength) + categorySlugSuffix + name)
}
