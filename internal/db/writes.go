package db

import (
	"database/sql"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// ImportNetwork replaces the network named net.Name with the given nodes and edges.
// The whole import runs in one transaction.
func (d *DB) ImportNetwork(net Network, nodes []Node, edges []Edge) error {
	if net.Name == "" {
		return errors.New("network name is required")
	}
	if net.ImportedAt == 0 {
		net.ImportedAt = time.Now().UnixMilli()
	}

	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM networks WHERE name = ?`, net.Name); err != nil {
			return errors.Wrap(err, "clearing previous import")
		}
		if _, err := tx.Exec(
			`INSERT INTO networks (name, weighted, source, imported_at) VALUES (?, ?, ?, ?)`,
			net.Name, net.Weighted, net.Source, net.ImportedAt,
		); err != nil {
			return errors.Wrap(err, "inserting network")
		}

		nodeStmt, err := tx.Prepare(`INSERT OR REPLACE INTO nodes (network, id, label) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer nodeStmt.Close()
		for _, n := range nodes {
			if _, err := nodeStmt.Exec(net.Name, n.ID, n.Label); err != nil {
				return errors.Wrapf(err, "inserting node %q", n.ID)
			}
		}

		edgeStmt, err := tx.Prepare(`INSERT INTO edges (network, source_id, target_id, weight) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer edgeStmt.Close()
		for _, e := range edges {
			if _, err := edgeStmt.Exec(net.Name, e.SourceID, e.TargetID, e.Weight); err != nil {
				return errors.Wrapf(err, "inserting edge (%s, %s)", e.SourceID, e.TargetID)
			}
		}
		return nil
	})
}

// ImportMetadata upserts node metadata. With replace set the table is cleared first.
func (d *DB) ImportMetadata(md map[string]map[string]string, replace bool) error {
	nodeIDs := make([]string, 0, len(md))
	for id := range md {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	return d.inTx(func(tx *sql.Tx) error {
		if replace {
			if _, err := tx.Exec(`DELETE FROM node_metadata`); err != nil {
				return errors.Wrap(err, "clearing metadata")
			}
		}
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO node_metadata (node_id, field, value) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, id := range nodeIDs {
			for field, value := range md[id] {
				if _, err := stmt.Exec(id, field, value); err != nil {
					return errors.Wrapf(err, "inserting metadata %s.%s", id, field)
				}
			}
		}
		return nil
	})
}

func (d *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
