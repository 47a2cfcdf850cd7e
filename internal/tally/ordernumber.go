package tally

import (
	"fmt"
	"strconv"
)

// NextOrderNumber produces the order number following maxExisting within a
// calendar year, formatted as "YYYY-NNNN". An empty or unparseable existing
// number starts the year's sequence at 0001.
func NextOrderNumber(year int, maxExisting string) string {
	seq := 0
	if len(maxExisting) > 5 {
		if n, err := strconv.Atoi(maxExisting[5:]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%d-%04d", year, seq+1)
}
