package db

import "github.com/cockroachdb/errors"

// NetworkEdges returns every edge row of a network in insertion order.
// Duplicate pairs are returned as stored; the graph model coalesces them.
func (d *DB) NetworkEdges(network string) ([]Edge, error) {
	rows, err := d.conn.Query(`
		SELECT network, source_id, target_id, weight
		FROM edges WHERE network = ? ORDER BY rowid
	`, network)
	if err != nil {
		return nil, errors.Wrapf(err, "loading edges of %q", network)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.Network, &e.SourceID, &e.TargetID, &e.Weight); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Metadata returns the node metadata table as node -> field -> value
func (d *DB) Metadata() (map[string]map[string]string, error) {
	rows, err := d.conn.Query(`SELECT node_id, field, value FROM node_metadata`)
	if err != nil {
		return nil, errors.Wrap(err, "loading metadata")
	}
	defer rows.Close()

	md := make(map[string]map[string]string)
	for rows.Next() {
		var r MetadataRow
		if err := rows.Scan(&r.NodeID, &r.Field, &r.Value); err != nil {
			return nil, err
		}
		if md[r.NodeID] == nil {
			md[r.NodeID] = make(map[string]string)
		}
		md[r.NodeID][r.Field] = r.Value
	}
	return md, rows.Err()
}
