package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/db"
	"schoolnet/cohort/internal/graph"
	"schoolnet/cohort/internal/graphio"
	"schoolnet/cohort/internal/logger"
	"schoolnet/cohort/internal/orchestrate"
	"schoolnet/cohort/internal/report"
)

var (
	detectUnweightedFile    string
	detectWeightedFile      string
	detectMetadataFile      string
	detectUnweightedNetwork string
	detectWeightedNetwork   string
	detectFormat            string
	detectOutput            string
	detectAssignmentsDir    string
	detectResolution        float64
	detectStrict            bool
	detectSequential        bool
	detectFields            []string
	detectTopN              int
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect communities on the unweighted and weighted networks and analyse their composition",
	Example: `  cohort detect --unweighted-file school_u.net --weighted-file school_w.net --metadata-file meta.txt
  cohort detect --format json --output report.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCfg := cfg.Orchestrate()
		applyDetectFlags(cmd, &runCfg)

		in, err := loadInput()
		if err != nil {
			return err
		}

		format := cfg.Run.Format
		if cmd.Flags().Changed("format") {
			format = detectFormat
		}
		var out io.Writer = os.Stdout
		if detectOutput != "" {
			f, err := os.Create(detectOutput)
			if err != nil {
				return errors.Wrap(err, "creating output file")
			}
			defer f.Close()
			out = f
		}
		reporter, err := report.New(format, out)
		if err != nil {
			return err
		}

		rep, err := orchestrate.Run(context.Background(), in, runCfg)
		if err != nil {
			return err
		}
		if detectAssignmentsDir != "" {
			if err := writeAssignments(detectAssignmentsDir, rep, in.Metadata, runCfg.Composition.Fields); err != nil {
				return err
			}
		}
		return errors.Wrap(reporter.Report(rep), "writing report")
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectUnweightedFile, "unweighted-file", "", "Pajek file for the unweighted variant")
	detectCmd.Flags().StringVar(&detectWeightedFile, "weighted-file", "", "Pajek file for the weighted variant")
	detectCmd.Flags().StringVar(&detectMetadataFile, "metadata-file", "", "Whitespace-separated node metadata table")
	detectCmd.Flags().StringVar(&detectUnweightedNetwork, "unweighted-network", "unweighted", "Stored network for the unweighted variant")
	detectCmd.Flags().StringVar(&detectWeightedNetwork, "weighted-network", "weighted", "Stored network for the weighted variant")
	detectCmd.Flags().StringVar(&detectFormat, "format", "text", "Report format: text, json, yaml")
	detectCmd.Flags().StringVarP(&detectOutput, "output", "o", "", "Write the report to a file instead of stdout")
	detectCmd.Flags().StringVar(&detectAssignmentsDir, "assignments-dir", "", "Also write per-variant node,community CSV files here")
	detectCmd.Flags().Float64Var(&detectResolution, "resolution", graph.DefaultResolution, "Modularity resolution")
	detectCmd.Flags().BoolVar(&detectStrict, "strict", false, "Fail when a community member has no metadata")
	detectCmd.Flags().BoolVar(&detectSequential, "sequential", false, "Run the two variants one after the other")
	detectCmd.Flags().StringSliceVar(&detectFields, "fields", nil, "Metadata fields to analyse (default: all)")
	detectCmd.Flags().IntVar(&detectTopN, "top-n", 10, "Number of items to list per topology section")
	rootCmd.AddCommand(detectCmd)
}

// applyDetectFlags lets explicitly set flags override the loaded config
func applyDetectFlags(cmd *cobra.Command, c *orchestrate.Config) {
	flags := cmd.Flags()
	if flags.Changed("resolution") {
		c.Louvain.Resolution = detectResolution
	}
	if flags.Changed("strict") {
		c.Composition.Strict = detectStrict
	}
	if flags.Changed("sequential") {
		c.Sequential = detectSequential
	}
	if flags.Changed("fields") {
		c.Composition.Fields = detectFields
	}
	if flags.Changed("top-n") {
		c.TopN = detectTopN
	}
}

// loadInput reads the networks from files when any file flag is set,
// otherwise from the database. Metadata from a file always wins.
func loadInput() (orchestrate.Input, error) {
	var in orchestrate.Input
	var err error

	if detectUnweightedFile != "" || detectWeightedFile != "" {
		if in.Unweighted, err = graphFromFile(detectUnweightedFile); err != nil {
			return in, err
		}
		if in.Weighted, err = graphFromFile(detectWeightedFile); err != nil {
			return in, err
		}
	} else {
		d, err := OpenDatabase(false)
		if err != nil {
			return in, err
		}
		defer d.Close()

		if in.Unweighted, err = graphFromDB(d, detectUnweightedNetwork); err != nil {
			return in, err
		}
		if in.Weighted, err = graphFromDB(d, detectWeightedNetwork); err != nil {
			return in, err
		}
		if in.Unweighted == nil && in.Weighted == nil {
			return in, errors.WithHint(errors.Newf("neither %q nor %q is in the database", detectUnweightedNetwork, detectWeightedNetwork),
				"import a network with: cohort ingest --network NAME FILE.net")
		}
		if detectMetadataFile == "" {
			if in.Metadata, err = composition.FromDB(d); err != nil {
				return in, errors.Wrap(err, "loading metadata")
			}
		}
	}

	if detectMetadataFile != "" {
		if in.Metadata, err = readMetadataFile(detectMetadataFile, cfg.Metadata.KeyColumn); err != nil {
			return in, err
		}
	}
	return in, nil
}

func graphFromFile(path string) (*graph.Graph, error) {
	if path == "" {
		return nil, nil
	}
	net, err := readPajekFile(path)
	if err != nil {
		return nil, err
	}
	g, err := net.Graph()
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	logger.Logger.Infow("network loaded", logger.FieldPath, path,
		logger.FieldNodes, g.NodeCount(), logger.FieldEdges, g.EdgeCount(),
		"dropped_self_loops", net.DroppedSelfLoops)
	return g, nil
}

// graphFromDB returns nil for a network that was never imported
func graphFromDB(d *db.DB, name string) (*graph.Graph, error) {
	g, err := graph.FromDB(d, name)
	if errors.Is(err, db.ErrNetworkNotFound) {
		logger.Logger.Warnw("network not imported, skipping", logger.FieldNetwork, name)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Logger.Infow("network loaded", logger.FieldNetwork, name,
		logger.FieldNodes, g.NodeCount(), logger.FieldEdges, g.EdgeCount())
	return g, nil
}

func readMetadataFile(path, keyColumn string) (composition.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening metadata")
	}
	defer f.Close()
	md, err := graphio.ReadMetadata(f, keyColumn)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return md, nil
}

func writeAssignments(dir string, rep *orchestrate.Report, md composition.Metadata, fields []string) error {
	if len(fields) == 0 {
		fields = md.Fields()
	}
	for _, vr := range rep.Variants() {
		path := filepath.Join(dir, vr.Variant.String()+".csv")
		if err := graphio.WriteAssignments(path, vr.Partition(), md, fields); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		logger.Logger.Infow("assignments written", logger.FieldVariant, vr.Variant, logger.FieldPath, path)
	}
	return nil
}
