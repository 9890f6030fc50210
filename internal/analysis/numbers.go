package analysis

import (
	"math"
	"strconv"
)

// Numbers is an aggregate coverage metric record. Statements is the counting
// denominator and never includes excluded lines, so Statements is always
// Executed + Missing. The branch buckets (Branches, ExecutedBranches,
// PartialBranches) count branch lines, while MissingBranches counts missing
// arcs; the asymmetry is part of the output format.
type Numbers struct {
	Statements       int
	Executed         int
	Missing          int
	Excluded         int
	Branches         int
	ExecutedBranches int
	MissingBranches  int
	PartialBranches  int
}

// Merge returns the field-wise sum of n and other. Merge is commutative and
// associative, and the zero Numbers is its identity.
func (n Numbers) Merge(other Numbers) Numbers {
	return Numbers{
		Statements:       n.Statements + other.Statements,
		Executed:         n.Executed + other.Executed,
		Missing:          n.Missing + other.Missing,
		Excluded:         n.Excluded + other.Excluded,
		Branches:         n.Branches + other.Branches,
		ExecutedBranches: n.ExecutedBranches + other.ExecutedBranches,
		MissingBranches:  n.MissingBranches + other.MissingBranches,
		PartialBranches:  n.PartialBranches + other.PartialBranches,
	}
}

// PercentCovered returns the exact covered percentage. A record with no
// statements counts as fully covered so it is neutral when merged into a
// total.
func (n Numbers) PercentCovered() float64 {
	if n.Statements == 0 {
		return 100.0
	}
	return 100.0 * float64(n.Executed) / float64(n.Statements)
}

// Display formats PercentCovered to the given number of decimal digits.
// Rounding never crosses the true 0 and 100 boundaries: a value that is not
// exactly 100 is pinned just below it, and a nonzero value is pinned just
// above zero, whatever the precision.
func (n Numbers) Display(precision int) string {
	return displayCovered(n.PercentCovered(), precision)
}

func displayCovered(pc float64, precision int) string {
	near0 := 1.0 / math.Pow(10, float64(precision))
	switch {
	case 0 < pc && pc < near0:
		pc = near0
	case 100.0-near0 < pc && pc < 100.0:
		pc = 100.0 - near0
	}
	return strconv.FormatFloat(pc, 'f', precision, 64)
}
