package graphio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/graph"
)

// WriteAssignments writes one row per node: node, community, then the
// requested metadata fields. Rows follow natural node order.
func WriteAssignments(filePath string, p *graph.Partition, md composition.Metadata, fields []string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create directory")
	}

	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{DefaultKeyColumn, "community"}, fields...)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, id := range p.NodeIDs() {
		c, _ := p.Community(id)
		row := []string{id, strconv.Itoa(c)}
		for _, f := range fields {
			row = append(row, md[id][f])
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write row for %s", id)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "failed to flush")
	}
	return errors.Wrap(file.Close(), "failed to close file")
}
