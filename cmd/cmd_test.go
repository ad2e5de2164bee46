package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUnweightedNet = `*Vertices 6
1 "101"
2 "102"
3 "103"
4 "104"
5 "105"
6 "106"
*Edges
1 2
2 3
3 1
3 4
4 5
5 6
6 4
`

const testWeightedNet = `*Vertices 6
1 "101"
2 "102"
3 "103"
4 "104"
5 "105"
6 "106"
*Edges
1 2 3
2 3 2
3 1 3
3 4 1
4 5 2
5 6 3
6 4 3
`

const testMetadata = `node school_group immigrant
101 A yes
102 A no
103 B no
104 B yes
105 B no
106 A no
`

// resetCommandState restores flag variables between Execute calls
func resetCommandState() {
	dbPath, configPath, logLevel = "", "", "error"
	logJSON, verbosity = false, 0
	ingestNetwork, ingestMetadata = "", ""
	ingestWeighted, ingestReplaceMetadata = false, false
	detectUnweightedFile, detectWeightedFile, detectMetadataFile = "", "", ""
	detectUnweightedNetwork, detectWeightedNetwork = "unweighted", "weighted"
	detectFormat, detectOutput, detectAssignmentsDir = "text", "", ""
	detectResolution, detectTopN = 1.0, 10
	detectStrict, detectSequential = false, false
	detectFields = nil
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	resetCommandState()
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	return rootCmd.Execute()
}

func writeFixtures(t *testing.T) (dir, unweighted, weighted, metadata string) {
	t.Helper()
	dir = t.TempDir()
	unweighted = filepath.Join(dir, "school_u.net")
	weighted = filepath.Join(dir, "school_w.net")
	metadata = filepath.Join(dir, "metadata.txt")
	require.NoError(t, os.WriteFile(unweighted, []byte(testUnweightedNet), 0o644))
	require.NoError(t, os.WriteFile(weighted, []byte(testWeightedNet), 0o644))
	require.NoError(t, os.WriteFile(metadata, []byte(testMetadata), 0o644))
	return dir, unweighted, weighted, metadata
}

type jsonVariant struct {
	Weighted    bool    `json:"weighted"`
	Communities int     `json:"communities"`
	Modularity  float64 `json:"modularity"`
	Summaries   []struct {
		Members       []string                  `json:"members"`
		Distributions map[string]map[string]int `json:"distributions"`
	} `json:"summaries"`
}

type jsonReport struct {
	RunID      string      `json:"run_id"`
	Unweighted jsonVariant `json:"unweighted"`
	Weighted   jsonVariant `json:"weighted"`
}

func readReport(t *testing.T, path string) jsonReport {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep jsonReport
	require.NoError(t, json.Unmarshal(data, &rep))
	return rep
}

func TestDetect_FromFiles(t *testing.T) {
	dir, u, w, m := writeFixtures(t)
	out := filepath.Join(dir, "report.json")

	require.NoError(t, execute(t, "detect",
		"--unweighted-file", u, "--weighted-file", w, "--metadata-file", m,
		"--format", "json", "--output", out, "--assignments-dir", filepath.Join(dir, "assign")))

	rep := readReport(t, out)
	assert.NotEmpty(t, rep.RunID)
	for _, v := range []jsonVariant{rep.Unweighted, rep.Weighted} {
		assert.Equal(t, 2, v.Communities)
		require.Len(t, v.Summaries, 2)
		assert.Equal(t, []string{"101", "102", "103"}, v.Summaries[0].Members)
		assert.Equal(t, map[string]int{"A": 2, "B": 1}, v.Summaries[0].Distributions["school_group"])
		assert.Equal(t, map[string]int{"A": 1, "B": 2}, v.Summaries[1].Distributions["school_group"])
	}
	assert.InDelta(t, 6.0/7-0.5, rep.Unweighted.Modularity, 1e-9)
	assert.True(t, rep.Weighted.Weighted)

	csv, err := os.ReadFile(filepath.Join(dir, "assign", "weighted.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csv), "node,community,immigrant,school_group\n101,0,yes,A\n")
}

func TestIngestThenDetect(t *testing.T) {
	dir, u, w, m := writeFixtures(t)
	dbFile := filepath.Join(dir, "store.db")
	out := filepath.Join(dir, "report.json")

	require.NoError(t, execute(t, "ingest", "--db", dbFile, "--network", "unweighted", u))
	require.NoError(t, execute(t, "ingest", "--db", dbFile, "--network", "weighted", w, "--metadata", m))
	require.NoError(t, execute(t, "detect", "--db", dbFile, "--format", "json", "--output", out))

	rep := readReport(t, out)
	assert.Equal(t, 2, rep.Unweighted.Communities)
	assert.Equal(t, 2, rep.Weighted.Communities)
	assert.Equal(t, map[string]int{"no": 2, "yes": 1}, rep.Weighted.Summaries[1].Distributions["immigrant"])
}

func TestIngest_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "ingest", "--db", filepath.Join(dir, "x.db"))
	assert.ErrorContains(t, err, "nothing to ingest")
}

func TestDetect_StrictFailsOnMissingMetadata(t *testing.T) {
	dir, u, _, _ := writeFixtures(t)
	partial := filepath.Join(dir, "partial.txt")
	require.NoError(t, os.WriteFile(partial, []byte("node school_group\n101 A\n"), 0o644))

	err := execute(t, "detect", "--unweighted-file", u, "--metadata-file", partial,
		"--strict", "--output", filepath.Join(dir, "r.txt"))
	assert.ErrorContains(t, err, "no metadata")
}

func TestDiscoverDB(t *testing.T) {
	resetCommandState()
	dir := t.TempDir()
	existing := filepath.Join(dir, "found.db")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))

	t.Setenv("COHORT_DB", existing)
	got, err := DiscoverDB(false)
	require.NoError(t, err)
	assert.Equal(t, existing, got)

	t.Setenv("COHORT_DB", "")
	dbPath = filepath.Join(dir, "missing.db")
	_, err = DiscoverDB(false)
	assert.Error(t, err)
	got, err = DiscoverDB(true)
	require.NoError(t, err)
	assert.Equal(t, dbPath, got)
	dbPath = ""
}
