package graphio

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"schoolnet/cohort/internal/composition"
)

// DefaultKeyColumn names the column holding node IDs
const DefaultKeyColumn = "node"

// ReadMetadata parses a whitespace-separated table whose first non-comment
// line is the header. keyColumn holds node IDs; every other column becomes a
// categorical field. Lines starting with # are comments.
func ReadMetadata(r io.Reader, keyColumn string) (composition.Metadata, error) {
	if keyColumn == "" {
		keyColumn = DefaultKeyColumn
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var header []string
	key := -1
	md := make(composition.Metadata)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols, err := splitQuoted(line)
		if err != nil {
			return nil, parseErrorf(lineNo, "%v", err)
		}

		if header == nil {
			header = cols
			for i, c := range header {
				if c == keyColumn {
					key = i
				}
			}
			if key < 0 {
				return nil, errors.WithHintf(parseErrorf(lineNo, "no %q column in header", keyColumn),
					"columns are: %s", strings.Join(header, ", "))
			}
			continue
		}

		if len(cols) != len(header) {
			return nil, parseErrorf(lineNo, "expected %d columns, got %d", len(header), len(cols))
		}
		id := cols[key]
		if _, dup := md[id]; dup {
			return nil, parseErrorf(lineNo, "duplicate node %q", id)
		}
		rec := make(map[string]string, len(cols)-1)
		for i, v := range cols {
			if i != key {
				rec[header[i]] = v
			}
		}
		md[id] = rec
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading metadata")
	}
	if header == nil {
		return nil, parseErrorf(lineNo, "missing header")
	}
	return md, nil
}
