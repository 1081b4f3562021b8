package lr

import "fmt"

// shiftCell formats an ACTION cell for "shift to state j" (spec.md §4.2,
// §6: "s <j>").
func shiftCell(j int) string {
	return fmt.Sprintf("s %d", j)
}

// reduceCell formats an ACTION cell for "reduce by rules[lhs][k]"
// (spec.md §4.2, §6: "r <L> <k>").
func reduceCell(lhs string, k int) string {
	return fmt.Sprintf("r %s %d", lhs, k)
}
