package graphio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/graph"
)

const schoolMeta = `node school_group immigrant
# exported from the survey
101 A yes
102   A	no
103 B no
`

func TestReadMetadata(t *testing.T) {
	md, err := ReadMetadata(strings.NewReader(schoolMeta), "")
	require.NoError(t, err)
	assert.Equal(t, composition.Metadata{
		"101": {"school_group": "A", "immigrant": "yes"},
		"102": {"school_group": "A", "immigrant": "no"},
		"103": {"school_group": "B", "immigrant": "no"},
	}, md)
	assert.Equal(t, []string{"immigrant", "school_group"}, md.Fields())
}

func TestReadMetadata_CustomKey(t *testing.T) {
	md, err := ReadMetadata(strings.NewReader("group id\nA 7\n"), "id")
	require.NoError(t, err)
	assert.Equal(t, "A", md["7"]["group"])
}

func TestReadMetadata_Errors(t *testing.T) {
	cases := map[string]string{
		"no key column": "id group\n1 A\n",
		"short row":     "node group\n1\n",
		"duplicate":     "node group\n1 A\n1 B\n",
		"empty":         "# nothing\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMetadata(strings.NewReader(input), DefaultKeyColumn)
			assert.True(t, errors.Is(err, ErrParse), "%v", err)
		})
	}
}

func TestWriteAssignments(t *testing.T) {
	p := graph.NewPartition(map[string]int{"10": 1, "2": 0, "a": 1})
	md := composition.Metadata{"2": {"school_group": "A"}, "10": {"school_group": "B"}}
	path := filepath.Join(t.TempDir(), "out", "weighted.csv")

	require.NoError(t, WriteAssignments(path, p, md, []string{"school_group"}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "node,community,school_group\n2,0,A\n10,1,B\na,1,\n", string(data))
}
