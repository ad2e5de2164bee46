package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"schoolnet/cohort/internal/db"
	"schoolnet/cohort/internal/graphio"
	"schoolnet/cohort/internal/logger"
)

var (
	ingestNetwork         string
	ingestWeighted        bool
	ingestMetadata        string
	ingestReplaceMetadata bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.net]",
	Short: "Import a Pajek network and/or a metadata table into the database",
	Example: `  cohort ingest --network unweighted school_u.net
  cohort ingest --network weighted school_w.net --metadata school_metadata.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && ingestMetadata == "" {
			return errors.WithHint(errors.New("nothing to ingest"),
				"pass a .net file, --metadata FILE, or both")
		}

		d, err := OpenDatabase(true)
		if err != nil {
			return err
		}
		defer d.Close()

		if len(args) == 1 {
			if err := ingestNetworkFile(d, args[0]); err != nil {
				return err
			}
		}
		if ingestMetadata != "" {
			if err := ingestMetadataFile(d, ingestMetadata); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestNetwork, "network", "", "Name to store the network under (default: weighted or unweighted)")
	ingestCmd.Flags().BoolVar(&ingestWeighted, "weighted", false, "Mark the network as weighted even if no edge carries a weight")
	ingestCmd.Flags().StringVar(&ingestMetadata, "metadata", "", "Whitespace-separated metadata table to import")
	ingestCmd.Flags().BoolVar(&ingestReplaceMetadata, "replace-metadata", false, "Drop previously imported metadata first")
	rootCmd.AddCommand(ingestCmd)
}

func ingestNetworkFile(d *db.DB, path string) error {
	net, err := readPajekFile(path)
	if err != nil {
		return err
	}
	// Validate before storing so the store only ever holds loadable networks
	if _, err := net.Graph(); err != nil {
		return errors.Wrapf(err, "%s", path)
	}

	weighted := ingestWeighted || net.Weighted
	name := ingestNetwork
	if name == "" {
		name = "unweighted"
		if weighted {
			name = "weighted"
		}
	}

	abs, _ := filepath.Abs(path)
	nodes := make([]db.Node, len(net.Nodes))
	for i, id := range net.Nodes {
		nodes[i] = db.Node{ID: id}
	}
	edges := make([]db.Edge, len(net.Edges))
	for i, e := range net.Edges {
		edges[i] = db.Edge{SourceID: e.Source, TargetID: e.Target}
		if e.Weight != 0 {
			w := e.Weight
			edges[i].Weight = &w
		}
	}
	if err := d.ImportNetwork(db.Network{Name: name, Weighted: weighted, Source: &abs}, nodes, edges); err != nil {
		return errors.Wrapf(err, "importing %s", path)
	}

	logger.Logger.Infow("network imported",
		logger.FieldNetwork, name,
		logger.FieldPath, path,
		logger.FieldNodes, len(nodes),
		logger.FieldEdges, len(edges),
		"dropped_self_loops", net.DroppedSelfLoops)
	fmt.Printf("Imported network %q: %s nodes, %s edge lines", name,
		humanize.Comma(int64(len(nodes))), humanize.Comma(int64(len(edges))))
	if net.DroppedSelfLoops > 0 {
		fmt.Printf(" (%d self-loops dropped)", net.DroppedSelfLoops)
	}
	fmt.Println()
	return nil
}

func ingestMetadataFile(d *db.DB, path string) error {
	md, err := readMetadataFile(path, cfg.Metadata.KeyColumn)
	if err != nil {
		return err
	}
	if err := d.ImportMetadata(md, ingestReplaceMetadata); err != nil {
		return errors.Wrapf(err, "importing %s", path)
	}
	logger.Logger.Infow("metadata imported", logger.FieldPath, path, logger.FieldNodes, len(md), "fields", md.Fields())
	fmt.Printf("Imported metadata for %s nodes (fields: %v)\n", humanize.Comma(int64(len(md))), md.Fields())
	return nil
}

func readPajekFile(path string) (*graphio.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening network")
	}
	defer f.Close()
	net, err := graphio.ReadPajek(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return net, nil
}
