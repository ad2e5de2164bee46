package db

// Network is a named graph variant, e.g. "unweighted" or "weighted"
type Network struct {
	Name       string  `json:"name"`
	Weighted   bool    `json:"weighted"`
	Source     *string `json:"source"`      // file the network was imported from
	ImportedAt int64   `json:"imported_at"` // Unix millis
}

// Node represents a row in the nodes table
type Node struct {
	Network string  `json:"network"`
	ID      string  `json:"id"`
	Label   *string `json:"label"`
}

// Edge represents a row in the edges table. A nil Weight means unweighted.
type Edge struct {
	Network  string   `json:"network"`
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Weight   *float64 `json:"weight"`
}

// MetadataRow is one categorical field value of one node
type MetadataRow struct {
	NodeID string `json:"node_id"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}
