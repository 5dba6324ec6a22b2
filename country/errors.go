package country

import (
	"fmt"
	"strings"
)

var (
	ErrCacheTransport   = fmt.Errorf("cache transport failure")
	ErrLiveFetch        = fmt.Errorf("live data fetch failure")
	ErrDefaultSelection = fmt.Errorf("default selection country is not available")
)

// JoinConsistencyError is returned when countries of the latest table are missing from the
// full historical table of the same snapshot.
type JoinConsistencyError struct {
	Missing []string
}

func (e *JoinConsistencyError) Error() string {
	return fmt.Sprintf("latest countries missing from full table: %s", strings.Join(e.Missing, ", "))
}
