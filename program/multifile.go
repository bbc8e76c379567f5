package program

import (
	"sort"

	"github.com/samber/lo"
)

// FixMultiFileIndices returns the target indices at which new files start: sorted, without
// duplicates or indices outside [0, targetCount), and always starting with 0.
func FixMultiFileIndices(indices []int, targetCount int) []int {
	fixed := lo.Uniq(lo.Filter(indices, func(i, _ int) bool {
		return i > 0 && i < targetCount
	}))
	sort.Ints(fixed)
	return append([]int{0}, fixed...)
}
