package db

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a fresh database file in a temp dir with the schema applied.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func f64(v float64) *float64 { return &v }
func strPtr(s string) *string { return &s }

func TestImportNetwork_RoundTrip(t *testing.T) {
	d := setupTestDB(t)

	err := d.ImportNetwork(
		Network{Name: "weighted", Weighted: true, Source: strPtr("school_w.net")},
		[]Node{{ID: "1", Label: strPtr("1")}, {ID: "2"}, {ID: "3"}, {ID: "9"}},
		[]Edge{
			{SourceID: "1", TargetID: "2", Weight: f64(2.5)},
			{SourceID: "2", TargetID: "3"},
		},
	)
	require.NoError(t, err)

	net, err := d.GetNetwork("weighted")
	require.NoError(t, err)
	assert.True(t, net.Weighted)
	require.NotNil(t, net.Source)
	assert.Equal(t, "school_w.net", *net.Source)
	assert.NotZero(t, net.ImportedAt)

	nodes, err := d.NetworkNodes("weighted")
	require.NoError(t, err)
	assert.Len(t, nodes, 4)

	edges, err := d.NetworkEdges("weighted")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "1", edges[0].SourceID)
	require.NotNil(t, edges[0].Weight)
	assert.InDelta(t, 2.5, *edges[0].Weight, 1e-12)
	assert.Nil(t, edges[1].Weight)
}

func TestImportNetwork_ReplacesPrevious(t *testing.T) {
	d := setupTestDB(t)

	require.NoError(t, d.ImportNetwork(Network{Name: "u"},
		[]Node{{ID: "a"}, {ID: "b"}}, []Edge{{SourceID: "a", TargetID: "b"}}))
	require.NoError(t, d.ImportNetwork(Network{Name: "u"},
		[]Node{{ID: "x"}}, nil))

	nodes, err := d.NetworkNodes("u")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "x", nodes[0].ID)

	edges, err := d.NetworkEdges("u")
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestImportNetwork_RequiresName(t *testing.T) {
	d := setupTestDB(t)
	assert.Error(t, d.ImportNetwork(Network{}, nil, nil))
}

func TestGetNetwork_NotFound(t *testing.T) {
	d := setupTestDB(t)
	_, err := d.GetNetwork("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetworkNotFound))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestNetworks_SortedByName(t *testing.T) {
	d := setupTestDB(t)
	require.NoError(t, d.ImportNetwork(Network{Name: "weighted", Weighted: true}, nil, nil))
	require.NoError(t, d.ImportNetwork(Network{Name: "unweighted"}, nil, nil))

	nets, err := d.Networks()
	require.NoError(t, err)
	require.Len(t, nets, 2)
	assert.Equal(t, "unweighted", nets[0].Name)
	assert.False(t, nets[0].Weighted)
	assert.Equal(t, "weighted", nets[1].Name)
}

func TestImportMetadata(t *testing.T) {
	d := setupTestDB(t)

	require.NoError(t, d.ImportMetadata(map[string]map[string]string{
		"1": {"group": "1A", "gender": "F"},
		"2": {"group": "Teachers"},
	}, false))
	require.NoError(t, d.ImportMetadata(map[string]map[string]string{
		"2": {"gender": "M"},
	}, false))

	md, err := d.Metadata()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{
		"1": {"group": "1A", "gender": "F"},
		"2": {"group": "Teachers", "gender": "M"},
	}, md)

	require.NoError(t, d.ImportMetadata(map[string]map[string]string{
		"3": {"group": "2B"},
	}, true))
	md, err = d.Metadata()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{"3": {"group": "2B"}}, md)
}
