package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

var generator *fid.Generator

func init() {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Time-ordered prefix plus a random suffix, so two adds within the same
	// tick still get distinct ids.
	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(time.Millisecond).
		WithNumRandomChars(4)

	generator = fid.MustNewGenerator(config)
}

// Source produces card ids.
type Source interface {
	NewID() string
}

// Flex generates ids with flexid.
type Flex struct{}

// NewID returns a new unique ID.
func (Flex) NewID() string {
	return Generate()
}

// Generate returns a new unique ID.
func Generate() string {
	return generator.MustGenerate()
}
