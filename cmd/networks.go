package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var networksJSON bool

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List networks stored in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase(false)
		if err != nil {
			return err
		}
		defer d.Close()

		networks, err := d.Networks()
		if err != nil {
			return err
		}
		if networksJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(networks)
		}

		if len(networks) == 0 {
			fmt.Println("No networks imported.")
			return nil
		}
		for _, n := range networks {
			nodes, err := d.NetworkNodes(n.Name)
			if err != nil {
				return err
			}
			kind := "unweighted"
			if n.Weighted {
				kind = "weighted"
			}
			source := "-"
			if n.Source != nil {
				source = *n.Source
			}
			fmt.Printf("  %-12s %-10s %6s nodes  imported %s  %s\n", n.Name, kind,
				humanize.Comma(int64(len(nodes))), humanize.Time(time.UnixMilli(n.ImportedAt)), source)
		}
		return nil
	},
}

func init() {
	networksCmd.Flags().BoolVar(&networksJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(networksCmd)
}
