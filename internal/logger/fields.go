package logger

// Standard field names for structured logging
const (
	FieldRunID       = "run_id"
	FieldVariant     = "variant"
	FieldNetwork     = "network"
	FieldNodes       = "nodes"
	FieldEdges       = "edges"
	FieldCommunities = "communities"
	FieldModularity  = "modularity"
	FieldLevels      = "levels"
	FieldSweeps      = "sweeps"
	FieldDurationMS  = "duration_ms"
	FieldPath        = "path"
)
