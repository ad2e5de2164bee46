package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/graph"
	"schoolnet/cohort/internal/logger"
)

// ErrNoGraph is returned when neither variant has a graph
var ErrNoGraph = errors.New("no graph supplied")

// Run detects communities on the unweighted and the weighted graph, scores
// each partition with the matching weighting, and analyses composition.
// The two variants share only read-only inputs and run in parallel unless
// cfg.Sequential is set.
func Run(ctx context.Context, in Input, cfg Config) (*Report, error) {
	unweighted, weighted := in.Unweighted, in.Weighted
	if unweighted == nil {
		unweighted = weighted
	}
	if weighted == nil {
		weighted = unweighted
	}
	if unweighted == nil {
		return nil, errors.WithHint(ErrNoGraph, "supply at least one network")
	}
	cfg.Louvain.Validate()
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}

	start := time.Now()
	runID := uuid.New().String()
	log := logger.Logger.With(logger.FieldRunID, runID)
	log.Infow("run started",
		"unweighted_nodes", unweighted.NodeCount(),
		"weighted_nodes", weighted.NodeCount(),
		"metadata_nodes", len(in.Metadata),
		"parallel", !cfg.Sequential)

	plans := []struct {
		variant Variant
		g       *graph.Graph
	}{
		{VariantUnweighted, unweighted},
		{VariantWeighted, weighted},
	}
	results := make([]*VariantReport, len(plans))

	eg, egCtx := errgroup.WithContext(ctx)
	if cfg.Sequential {
		eg.SetLimit(1)
	}
	for i, plan := range plans {
		i, plan := i, plan
		eg.Go(func() error {
			vr, err := runVariant(egCtx, plan.variant, plan.g, in.Metadata, cfg)
			if err != nil {
				return errors.Wrapf(err, "%s variant", plan.variant)
			}
			results[i] = vr
			log.Infow("variant complete",
				logger.FieldVariant, plan.variant,
				logger.FieldCommunities, vr.Communities,
				logger.FieldModularity, vr.Modularity,
				logger.FieldLevels, vr.Levels,
				logger.FieldSweeps, vr.Sweeps,
				logger.FieldDurationMS, vr.DurationMs)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:       runID,
		GeneratedAt: start.UTC(),
		DurationMs:  time.Since(start).Milliseconds(),
		Status:      StatusSuccess,
		Resolution:  cfg.Louvain.Resolution,
		Unweighted:  results[0],
		Weighted:    results[1],
	}
	if len(in.Metadata) == 0 {
		report.Warnings = append(report.Warnings, "no metadata supplied: distributions are empty")
	}
	for _, vr := range results {
		for _, w := range vr.Warnings {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", vr.Variant, w))
		}
	}
	if len(report.Warnings) > 0 {
		report.Status = StatusPartial
		for _, w := range report.Warnings {
			log.Warn(w)
		}
	}
	return report, nil
}

// RunAndReport runs the analysis and hands the complete report to r
func RunAndReport(ctx context.Context, in Input, cfg Config, r Reporter) error {
	report, err := Run(ctx, in, cfg)
	if err != nil {
		return err
	}
	return errors.Wrap(r.Report(report), "reporting")
}

func runVariant(ctx context.Context, variant Variant, g *graph.Graph, md composition.Metadata, cfg Config) (*VariantReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	opts := cfg.Louvain
	opts.Weighted = variant.Weighted()
	res := graph.Louvain(g, opts)

	q, err := graph.Modularity(g, res.Partition, opts.Weighted)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating modularity")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summaries, err := composition.Analyze(res.Partition, md, cfg.Composition)
	if err != nil {
		return nil, errors.Wrap(err, "analyzing composition")
	}

	fields := cfg.Composition.Fields
	if len(fields) == 0 {
		fields = md.Fields()
	}
	crosstabs := make([]composition.Table, 0, len(fields))
	for _, f := range fields {
		crosstabs = append(crosstabs, composition.Crosstab(summaries, f))
	}

	vr := &VariantReport{
		Variant:     variant,
		Weighted:    opts.Weighted,
		Modularity:  q,
		Communities: res.Partition.Len(),
		Levels:      res.Levels,
		Sweeps:      res.Sweeps,
		Converged:   res.Converged,
		Summaries:   summaries,
		Crosstabs:   crosstabs,
		Topology:    graph.ComputeTopology(g, cfg.TopN),
		Bridges:     graph.ComputeBridges(g, res.Partition, cfg.TopN),
		partition:   res.Partition,
	}

	switch {
	case g.NodeCount() == 0:
		vr.Warnings = append(vr.Warnings, "graph has no nodes: partition is empty")
	case g.EdgeCount() == 0:
		vr.Warnings = append(vr.Warnings, graph.ErrEmptyGraph.Error()+": every node is its own community, modularity is 0")
	}
	if !res.Converged {
		vr.Warnings = append(vr.Warnings, fmt.Sprintf("optimizer stopped at its sweep/level bound after %d sweeps", res.Sweeps))
	}
	if len(md) > 0 {
		if gaps := composition.CoverageGaps(res.Partition, md); len(gaps) > 0 {
			vr.CoverageGap = gaps
			vr.Warnings = append(vr.Warnings, fmt.Sprintf("%d nodes have no metadata", len(gaps)))
		}
	}

	vr.DurationMs = time.Since(start).Milliseconds()
	return vr, nil
}
