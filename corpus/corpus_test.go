package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashari/yggdrasil/tree"
)

func TestLoadTabDelimitedRecords(t *testing.T) {
	input := "apple\t1\t\"red\"\n" +
		"application\t2\t\"blue\"\n" +
		"\n" + // blank line is skipped
		"banana\t3\t\"yellow\"\n"

	tr := tree.New[Record]()
	n, err := Load(strings.NewReader(input), tr, TabDecoder())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, tr.Size())

	vals := tr.Match("appl")
	assert.Len(t, vals, 2)
}

func TestLoadSkipsBadLinesAndReportsFirstError(t *testing.T) {
	input := "good\t1\t\"ok\"\n" +
		"badline-missing-fields\n" +
		"alsogood\t2\t\"ok\"\n"

	tr := tree.New[Record]()
	n, err := Load(strings.NewReader(input), tr, TabDecoder())
	assert.Error(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, tr.Size())
}

func TestLoadJSONLines(t *testing.T) {
	input := `{"pattern":"cat","score":1,"value":"meow"}` + "\n" +
		`{"pattern":"catalog","score":2,"value":"woof"}` + "\n"

	tr := tree.New[Record]()
	n, err := Load(strings.NewReader(input), tr, JSONLineDecoder())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"cat", "catalog"}, []string{
		tr.Match("cat")[0].Pattern, tr.Match("cat")[1].Pattern,
	})
}
