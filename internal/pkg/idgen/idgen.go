package idgen

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator mints log record identifiers. Behind an interface so tests can
// inject deterministic ids.
type Generator interface {
	NewID() string
}

// Func adapts a plain function to the Generator interface.
type Func func() string

func (f Func) NewID() string { return f() }

// Default returns the production generator: a uuid-derived random component
// followed by a base-36 millisecond clock component. Collision-resistant
// across concurrent calls and across processes without a central sequence.
func Default() Generator {
	return Func(func() string {
		random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		return random + strconv.FormatInt(time.Now().UnixMilli(), 36)
	})
}
