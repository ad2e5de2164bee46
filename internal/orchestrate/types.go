package orchestrate

import (
	"time"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/graph"
)

// Variant names one of the two analyses of a run
type Variant string

const (
	VariantUnweighted Variant = "unweighted"
	VariantWeighted   Variant = "weighted"
)

func (v Variant) String() string { return string(v) }

// Weighted reports whether the variant uses edge weights
func (v Variant) Weighted() bool { return v == VariantWeighted }

// RunStatus is the outcome of a run
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusPartial RunStatus = "partial" // completed with warnings
)

// Input holds the fully materialized inputs of a run. Nothing in it is modified.
// When only one graph is set it is used for both variants.
type Input struct {
	Unweighted *graph.Graph
	Weighted   *graph.Graph
	Metadata   composition.Metadata
}

// Config configures a run
type Config struct {
	// Louvain options shared by both variants; Weighted is set per variant.
	Louvain graph.LouvainOptions

	Composition composition.Options

	// Sequential runs the variants one after the other instead of in parallel.
	Sequential bool

	// TopN bounds lists in the topology section. Default: 10
	TopN int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Louvain: graph.DefaultLouvainOptions(),
		TopN:    10,
	}
}

// VariantReport is the result of one Louvain run plus its analysis
type VariantReport struct {
	Variant     Variant               `json:"variant" yaml:"variant"`
	Weighted    bool                  `json:"weighted" yaml:"weighted"`
	Modularity  float64               `json:"modularity" yaml:"modularity"`
	Communities int                   `json:"communities" yaml:"communities"`
	Levels      int                   `json:"levels" yaml:"levels"`
	Sweeps      int                   `json:"sweeps" yaml:"sweeps"`
	Converged   bool                  `json:"converged" yaml:"converged"`
	DurationMs  int64                 `json:"duration_ms" yaml:"duration_ms"`
	Summaries   []composition.Summary `json:"summaries" yaml:"summaries"`
	Crosstabs   []composition.Table   `json:"crosstabs" yaml:"crosstabs"`
	Topology    *graph.TopologyReport `json:"topology" yaml:"topology"`
	Bridges     *graph.BridgeReport   `json:"bridges" yaml:"bridges"`
	CoverageGap []string              `json:"coverage_gap,omitempty" yaml:"coverage_gap,omitempty"`
	Warnings    []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	partition *graph.Partition
}

// Partition returns the partition the report was computed from
func (v *VariantReport) Partition() *graph.Partition { return v.partition }

// Report is handed to a Reporter once, complete
type Report struct {
	RunID       string         `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64          `json:"duration_ms" yaml:"duration_ms"`
	Status      RunStatus      `json:"status" yaml:"status"`
	Resolution  float64        `json:"resolution" yaml:"resolution"`
	Unweighted  *VariantReport `json:"unweighted" yaml:"unweighted"`
	Weighted    *VariantReport `json:"weighted" yaml:"weighted"`
	Warnings    []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Variants returns the variant reports in fixed order
func (r *Report) Variants() []*VariantReport {
	return []*VariantReport{r.Unweighted, r.Weighted}
}

// Reporter is the presentation collaborator: it receives the full report once
type Reporter interface {
	Report(r *Report) error
}
