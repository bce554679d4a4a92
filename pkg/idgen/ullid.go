package idgen

import (
	"github.com/oklog/ulid/v2"
)

// MustGenerateSortableID returns a lexicographically sortable unique
// identifier. Event envelopes use these so a stream sorts in append order.
func MustGenerateSortableID() string {
	return ulid.Make().String()
}
