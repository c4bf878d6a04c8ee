package ranking

import (
	"fmt"
	"strings"
)

// InvalidFactorError is returned when a requested factor has no scorer.
// The ranking request is aborted and no partial result is returned.
type InvalidFactorError struct {
	Factor string
	Known  []string
}

func (e *InvalidFactorError) Error() string {
	return fmt.Sprintf("unknown ranking factor %q (known: %s)", e.Factor, strings.Join(e.Known, ", "))
}
