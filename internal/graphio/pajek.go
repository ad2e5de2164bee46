// Package graphio reads networks and node metadata from files and writes
// community assignments back out.
package graphio

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"schoolnet/cohort/internal/graph"
)

const maxLineBytes = 4 << 20

// Network is a parsed Pajek file
type Network struct {
	// Nodes in declaration order, including vertices without edges.
	Nodes []string
	Edges []graph.Edge

	// DroppedSelfLoops counts u-u lines that were skipped.
	DroppedSelfLoops int

	// Weighted reports whether any edge line carried an explicit weight.
	Weighted bool
}

// Graph builds the graph model from the parsed network
func (n *Network) Graph() (*graph.Graph, error) {
	return graph.NewGraph(n.Nodes, n.Edges)
}

type pajekSection int

const (
	sectionNone pajekSection = iota
	sectionVertices
	sectionPairs // *Edges, *Arcs
	sectionLists // *Edgeslist, *Arcslist
)

// ReadPajek parses a Pajek .net file. A vertex is named by its label when
// it has one, else by its number. Arcs are read as undirected edges.
// Lines starting with % are comments.
func ReadPajek(r io.Reader) (*Network, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	net := &Network{}
	names := make(map[string]string) // vertex number -> node ID
	name := func(num string) string {
		if id, ok := names[num]; ok {
			return id
		}
		return num
	}
	addEdge := func(u, v string, w float64) {
		if u == v {
			net.DroppedSelfLoops++
			return
		}
		net.Edges = append(net.Edges, graph.Edge{Source: u, Target: v, Weight: w})
	}

	section := sectionNone
	declared := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if strings.HasPrefix(line, "*") {
			head := strings.Fields(line)
			switch strings.ToLower(head[0]) {
			case "*vertices":
				if len(head) < 2 {
					return nil, parseErrorf(lineNo, "*Vertices needs a count")
				}
				n, err := strconv.Atoi(head[1])
				if err != nil || n < 0 {
					return nil, parseErrorf(lineNo, "invalid vertex count %q", head[1])
				}
				declared = n
				section = sectionVertices
			case "*edges", "*arcs":
				section = sectionPairs
			case "*edgeslist", "*arcslist":
				section = sectionLists
			case "*network":
				section = sectionNone
			default:
				return nil, parseErrorf(lineNo, "unsupported section %s", head[0])
			}
			continue
		}

		fields, err := splitQuoted(line)
		if err != nil {
			return nil, parseErrorf(lineNo, "%v", err)
		}

		switch section {
		case sectionVertices:
			num := fields[0]
			if _, err := strconv.Atoi(num); err != nil {
				return nil, parseErrorf(lineNo, "invalid vertex number %q", num)
			}
			id := num
			if len(fields) > 1 && fields[1] != "" {
				id = fields[1]
			}
			names[num] = id
			net.Nodes = append(net.Nodes, id)

		case sectionPairs:
			if len(fields) < 2 {
				return nil, parseErrorf(lineNo, "edge needs two endpoints")
			}
			var w float64
			if len(fields) > 2 {
				w, err = parseWeight(fields[2])
				if err != nil {
					return nil, parseErrorf(lineNo, "%v", err)
				}
				net.Weighted = true
			}
			addEdge(name(fields[0]), name(fields[1]), w)

		case sectionLists:
			u := name(fields[0])
			for _, v := range fields[1:] {
				addEdge(u, name(v), 0)
			}

		default:
			return nil, parseErrorf(lineNo, "data outside of a section")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading pajek")
	}

	// Vertices declared by count but not listed keep their number as ID
	for i := 1; i <= declared; i++ {
		num := strconv.Itoa(i)
		if _, ok := names[num]; !ok {
			names[num] = num
			net.Nodes = append(net.Nodes, num)
		}
	}
	return net, nil
}

func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Newf("invalid weight %q", s)
	}
	if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
		return 0, errors.Newf("weight %q must be positive and finite", s)
	}
	return w, nil
}

// splitQuoted splits on whitespace, keeping double-quoted runs together
func splitQuoted(line string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
