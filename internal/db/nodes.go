package db

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

// ErrNetworkNotFound is returned when a named network has not been imported
var ErrNetworkNotFound = errors.New("network not found")

// Networks returns all imported networks ordered by name
func (d *DB) Networks() ([]Network, error) {
	rows, err := d.conn.Query(`SELECT name, weighted, source, imported_at FROM networks ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "listing networks")
	}
	defer rows.Close()

	var networks []Network
	for rows.Next() {
		var n Network
		if err := rows.Scan(&n.Name, &n.Weighted, &n.Source, &n.ImportedAt); err != nil {
			return nil, err
		}
		networks = append(networks, n)
	}
	return networks, rows.Err()
}

// GetNetwork returns a single network by name
func (d *DB) GetNetwork(name string) (*Network, error) {
	var n Network
	err := d.conn.QueryRow(
		`SELECT name, weighted, source, imported_at FROM networks WHERE name = ?`, name,
	).Scan(&n.Name, &n.Weighted, &n.Source, &n.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithHintf(errors.Wrapf(ErrNetworkNotFound, "%q", name),
			"import it first with: cohort ingest --network %s <file.net>", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading network %q", name)
	}
	return &n, nil
}

// NetworkNodes returns every node of a network, including isolated ones
func (d *DB) NetworkNodes(network string) ([]Node, error) {
	rows, err := d.conn.Query(`SELECT network, id, label FROM nodes WHERE network = ?`, network)
	if err != nil {
		return nil, errors.Wrapf(err, "loading nodes of %q", network)
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.Network, &n.ID, &n.Label); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
