// Package analysis computes per-file coverage statistics from externally
// supplied facts: executable statements, excluded lines, executed lines and,
// in branch mode, possible and executed control-flow arcs. Everything here is
// pure set algebra over immutable snapshots; no state survives a report run.
package analysis

import "sort"

// Analysis holds the derived line and arc sets for one file or one narrowed
// region of a file.
//
// The reported sets partition the counted statements: every counted statement
// (statements minus excluded) is either executed or missing, and excluded
// lines are in neither.
type Analysis struct {
	statements LineSet
	excluded   LineSet
	executed   LineSet
	missing    LineSet

	branch       bool
	possibleArcs map[Arc]struct{}
	executedArcs map[Arc]struct{}
}

// New derives an Analysis without branch data. excluded is expected to be a
// subset of statements; lines outside statements are ignored. executedRaw is
// the unfiltered tracer output and is restricted to counted statements.
func New(statements, excluded, executedRaw LineSet) *Analysis {
	excluded = excluded.Intersect(statements)
	counted := statements.Diff(excluded)
	executed := executedRaw.Intersect(counted)
	return &Analysis{
		statements: statements,
		excluded:   excluded,
		executed:   executed,
		missing:    counted.Diff(executed),
	}
}

// NewBranch derives an Analysis with branch-arc data. Executed arcs outside
// the possible set are silently dropped; they indicate a stale analysis, not
// an error. Arcs whose source is neither a counted statement nor a sentinel
// node are dropped from both sets.
func NewBranch(statements, excluded, executedRaw LineSet, possibleArcs, executedArcsRaw []Arc) *Analysis {
	a := New(statements, excluded, executedRaw)
	a.branch = true
	counted := a.statements.Diff(a.excluded)

	a.possibleArcs = make(map[Arc]struct{}, len(possibleArcs))
	for _, arc := range possibleArcs {
		if sentinel(arc.Src) || counted.Contains(arc.Src) {
			a.possibleArcs[arc] = struct{}{}
		}
	}
	a.executedArcs = make(map[Arc]struct{}, len(executedArcsRaw))
	for _, arc := range executedArcsRaw {
		if _, ok := a.possibleArcs[arc]; ok {
			a.executedArcs[arc] = struct{}{}
		}
	}
	return a
}

// HasArcs reports whether branch data is present.
func (a *Analysis) HasArcs() bool { return a.branch }

// Executed returns the executed counted statements.
func (a *Analysis) Executed() LineSet { return a.executed }

// Missing returns the counted statements that never ran.
func (a *Analysis) Missing() LineSet { return a.missing }

// Excluded returns the statements excluded from counting.
func (a *Analysis) Excluded() LineSet { return a.excluded }

// Statements returns the full statement set, exclusions included.
func (a *Analysis) Statements() LineSet { return a.statements }

// Narrow returns a new Analysis restricted to regionLines. Line sets are
// intersected with the region; an arc is retained iff its source line is in
// the region, so an arc jumping out of the region still counts against the
// region holding the branching statement. Region lines that are not
// statements are ignored.
func (a *Analysis) Narrow(regionLines LineSet) *Analysis {
	narrowed := &Analysis{
		statements: a.statements.Intersect(regionLines),
		excluded:   a.excluded.Intersect(regionLines),
		executed:   a.executed.Intersect(regionLines),
		missing:    a.missing.Intersect(regionLines),
		branch:     a.branch,
	}
	if a.branch {
		narrowed.possibleArcs = make(map[Arc]struct{})
		for arc := range a.possibleArcs {
			if regionLines.Contains(arc.Src) {
				narrowed.possibleArcs[arc] = struct{}{}
			}
		}
		narrowed.executedArcs = make(map[Arc]struct{})
		for arc := range a.executedArcs {
			if regionLines.Contains(arc.Src) {
				narrowed.executedArcs[arc] = struct{}{}
			}
		}
	}
	return narrowed
}

// MissingArcs returns possible arcs that were never executed, ordered by
// source then target.
func (a *Analysis) MissingArcs() []Arc {
	var out []Arc
	for arc := range a.possibleArcs {
		if _, ok := a.executedArcs[arc]; !ok {
			out = append(out, arc)
		}
	}
	sortArcs(out)
	return out
}

// branchStat is the per-branch-line arc tally.
type branchStat struct {
	possible int
	taken    int
}

// exitTargets maps each real source line to its distinct possible exit
// targets. Sentinel sources never form branch lines.
func (a *Analysis) exitTargets() map[int]map[int]struct{} {
	exits := make(map[int]map[int]struct{})
	for arc := range a.possibleArcs {
		if sentinel(arc.Src) {
			continue
		}
		targets, ok := exits[arc.Src]
		if !ok {
			targets = make(map[int]struct{})
			exits[arc.Src] = targets
		}
		targets[arc.Dst] = struct{}{}
	}
	return exits
}

// branchStats returns one entry per branch line: a line with more than one
// distinct possible exit.
func (a *Analysis) branchStats() map[int]branchStat {
	stats := make(map[int]branchStat)
	for src, targets := range a.exitTargets() {
		if len(targets) < 2 {
			continue
		}
		taken := 0
		for dst := range targets {
			if _, ok := a.executedArcs[Arc{Src: src, Dst: dst}]; ok {
				taken++
			}
		}
		stats[src] = branchStat{possible: len(targets), taken: taken}
	}
	return stats
}

// branchLines returns the branch lines in ascending order.
func (a *Analysis) branchLines() []int {
	stats := a.branchStats()
	lines := make([]int, 0, len(stats))
	for src := range stats {
		lines = append(lines, src)
	}
	sort.Ints(lines)
	return lines
}

// ExecutedBranchArcs returns the executed arcs leaving branch lines as a flat
// ordered pair list, grouped by ascending source line and by target within a
// source. The list is built once per call and consumed once per report.
func (a *Analysis) ExecutedBranchArcs() [][2]int {
	return a.flattenBranchArcs(a.executedArcs)
}

// MissingBranchArcs returns the never-executed arcs leaving branch lines,
// ordered like ExecutedBranchArcs.
func (a *Analysis) MissingBranchArcs() [][2]int {
	stats := a.branchStats()
	pairs := make([][2]int, 0)
	for _, arc := range a.MissingArcs() {
		if _, ok := stats[arc.Src]; ok {
			pairs = append(pairs, [2]int{arc.Src, arc.Dst})
		}
	}
	return pairs
}

func (a *Analysis) flattenBranchArcs(arcs map[Arc]struct{}) [][2]int {
	stats := a.branchStats()
	selected := make([]Arc, 0, len(arcs))
	for arc := range arcs {
		if _, ok := stats[arc.Src]; ok {
			selected = append(selected, arc)
		}
	}
	sortArcs(selected)
	pairs := make([][2]int, 0, len(selected))
	for _, arc := range selected {
		pairs = append(pairs, [2]int{arc.Src, arc.Dst})
	}
	return pairs
}

// Numbers summarizes the analysis into an aggregate record. A branch line
// counts as executed only when all of its possible arcs ran, as partial when
// some but not all ran, and contributes only missing-arc counts when none
// ran. MissingBranches counts arcs, not lines.
func (a *Analysis) Numbers() Numbers {
	n := Numbers{
		Statements: a.executed.Len() + a.missing.Len(),
		Executed:   a.executed.Len(),
		Missing:    a.missing.Len(),
		Excluded:   a.excluded.Len(),
	}
	if !a.branch {
		return n
	}
	for _, stat := range a.branchStats() {
		n.Branches++
		n.MissingBranches += stat.possible - stat.taken
		switch {
		case stat.taken == stat.possible:
			n.ExecutedBranches++
		case stat.taken > 0:
			n.PartialBranches++
		}
	}
	return n
}

func sortArcs(arcs []Arc) {
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].Src != arcs[j].Src {
			return arcs[i].Src < arcs[j].Src
		}
		return arcs[i].Dst < arcs[j].Dst
	})
}
