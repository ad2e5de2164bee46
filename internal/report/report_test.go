package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/graph"
	"schoolnet/cohort/internal/orchestrate"
)

func sampleReport(t *testing.T) *orchestrate.Report {
	t.Helper()
	g, err := graph.NewGraph(nil, []graph.Edge{
		{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "a"},
		{Source: "d", Target: "e"}, {Source: "e", Target: "f"}, {Source: "f", Target: "d"},
	})
	require.NoError(t, err)
	md := composition.Metadata{
		"a": {"school_group": "A"}, "b": {"school_group": "A"}, "c": {"school_group": "B"},
		"d": {"school_group": "B"}, "e": {"school_group": "B"},
	}
	rep, err := orchestrate.Run(context.Background(), orchestrate.Input{Unweighted: g, Metadata: md}, orchestrate.DefaultConfig())
	require.NoError(t, err)
	return rep
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestNew_Aliases(t *testing.T) {
	for _, f := range []string{"", "TEXT", " json ", "yml", "yaml"} {
		r, err := New(f, &bytes.Buffer{})
		require.NoError(t, err, f)
		assert.NotNil(t, r)
	}
}

func TestJSONReport(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	r, err := New(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Report(rep))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.RunID, decoded["run_id"])

	unweighted := decoded["unweighted"].(map[string]any)
	assert.InDelta(t, 0.5, unweighted["modularity"], 1e-12)
	assert.EqualValues(t, 2, unweighted["communities"])
	summaries := unweighted["summaries"].([]any)
	require.Len(t, summaries, 2)
	first := summaries[0].(map[string]any)
	assert.Equal(t, []any{"a", "b", "c"}, first["members"])
}

func TestYAMLReport(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	r, err := New(FormatYAML, &buf)
	require.NoError(t, err)
	require.NoError(t, r.Report(rep))

	var decoded struct {
		RunID    string `yaml:"run_id"`
		Status   string `yaml:"status"`
		Weighted struct {
			Weighted  bool `yaml:"weighted"`
			Summaries []struct {
				Unlabeled     int                       `yaml:"unlabeled"`
				Distributions map[string]map[string]int `yaml:"distributions"`
			} `yaml:"summaries"`
		} `yaml:"weighted"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.RunID, decoded.RunID)
	assert.Equal(t, "partial", decoded.Status)
	assert.True(t, decoded.Weighted.Weighted)
	require.Len(t, decoded.Weighted.Summaries, 2)
	assert.Equal(t, map[string]int{"B": 2}, decoded.Weighted.Summaries[1].Distributions["school_group"])
	assert.Equal(t, 1, decoded.Weighted.Summaries[1].Unlabeled)
}

func TestTextReport(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, NewText(&buf).Report(rep))
	out := buf.String()

	assert.Contains(t, out, rep.RunID)
	assert.Contains(t, out, "UNWEIGHTED")
	assert.Contains(t, out, "WEIGHTED")
	assert.Contains(t, out, "0.5000")
	assert.Contains(t, out, "Community 0 (3 members)")
	assert.Contains(t, out, "members: a, b, c")
	assert.Contains(t, out, "school_group: A=2 B=1")
	assert.Contains(t, out, "school_group by community")
	assert.Contains(t, out, "1 without metadata")
	assert.Contains(t, out, "Both variants found the same communities")
	assert.Contains(t, out, "WARNINGS")
}

func TestPreviewMembers(t *testing.T) {
	assert.Equal(t, "", previewMembers(nil))
	many := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	assert.Equal(t, "1, 2, 3, 4, 5, 6, 7, 8 ... and 2 more", previewMembers(many))
	long := previewMembers([]string{"Some Very Long School Qualified Student Name"})
	assert.LessOrEqual(t, len(long), labelWidth)
}

func TestFormatCounts(t *testing.T) {
	assert.Equal(t, "-", formatCounts(nil))
	assert.Equal(t, "no=3 yes=3 maybe=1", formatCounts(map[string]int{"yes": 3, "no": 3, "maybe": 1}))
}

func TestCrosstabTable(t *testing.T) {
	out := crosstabTable(composition.Table{
		Field:       "immigrant",
		Categories:  []string{"no", "yes"},
		Rows:        [][]int{{2, 1}, {0, 4}},
		Communities: []int{0, 1},
	})
	assert.Contains(t, out, "community")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "yes")
}
