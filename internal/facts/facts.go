// Package facts defines the data contracts this engine consumes from its
// collaborators: the tracer (executed lines and arcs, context labels) and the
// static analyzer (statements, exclusions, possible arcs, code regions).
// The engine never computes these facts, it only aggregates them.
package facts

import (
	"fmt"

	"github.com/zjy-dev/covjson/internal/analysis"
)

// RegionKind identifies the kind of a code region.
type RegionKind int

const (
	ModuleRegion RegionKind = iota
	ClassRegion
	FunctionRegion
)

var regionKindNames = map[RegionKind]string{
	ModuleRegion:   "module",
	ClassRegion:    "class",
	FunctionRegion: "function",
}

// String returns the wire name of the kind.
func (k RegionKind) String() string {
	if name, ok := regionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RegionKind(%d)", int(k))
}

// ParseRegionKind converts a wire name into a RegionKind.
func ParseRegionKind(s string) (RegionKind, error) {
	for kind, name := range regionKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown region kind %q", s)
}

// CodeRegion is a named sub-extent of a file, supplied by the static
// analyzer. Lines is the set belonging to the region's own body; regions may
// overlap and the engine only intersects, it never interprets nesting.
type CodeRegion struct {
	Kind  RegionKind
	Name  string
	Lines analysis.LineSet
}

// FileFacts is one file's worth of raw coverage facts.
type FileFacts struct {
	Statements analysis.LineSet
	Excluded   analysis.LineSet
	Executed   analysis.LineSet

	// Arc facts are only meaningful in branch mode.
	PossibleArcs []analysis.Arc
	ExecutedArcs []analysis.Arc

	// Contexts maps a line number to the dynamic context labels observed on
	// it. The engine relays these unmodified.
	Contexts map[int][]string

	Regions []CodeRegion
}

// Analyze derives the coverage analysis for these facts.
func (f *FileFacts) Analyze(branch bool) *analysis.Analysis {
	if branch {
		return analysis.NewBranch(f.Statements, f.Excluded, f.Executed, f.PossibleArcs, f.ExecutedArcs)
	}
	return analysis.New(f.Statements, f.Excluded, f.Executed)
}

// Provider hands per-file facts to the report assembler. Files must return a
// stable order; Query errors are recovered at file granularity by the
// assembler, never fatally.
type Provider interface {
	Files() []string
	Query(path string) (*FileFacts, error)
}
