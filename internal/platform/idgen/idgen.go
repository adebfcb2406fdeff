package idgen

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// DefaultSize is the length of generated ids.
const DefaultSize = 16

// maxSize is the longest id a single UUID can back.
const maxSize = 22

// Generator produces URL-safe random ids derived from UUIDv4 bytes.
type Generator struct {
	size int
}

// New returns a Generator for ids of the given length, clamped to [DefaultSize, 22].
func New(size int) *Generator {
	if size < DefaultSize {
		size = DefaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return &Generator{size: size}
}

func (g *Generator) NewID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])[:g.size]
}
