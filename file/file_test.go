package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/chiptheory/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrackMap(t *testing.T) {
	m := CreateTrackMap([]string{"dumps/smb.json", "other/zelda.json"})
	assert.Equal(t, map[string]string{"smb": "dumps/smb.json", "zelda": "other/zelda.json"}, m)
}

func TestReadDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"p1":[253,253,-1],"p2":[],"t":[126],"n":[3]}`), 0666))

	dump, err := ReadDump(path)
	require.NoError(t, err)
	assert.Equal(t, []int{253, 253, -1}, dump.Periods(model.Pulse1))
	assert.Equal(t, []int{126}, dump.Periods(model.Triangle))
	assert.Equal(t, []int{3}, dump.N)
}

func TestParseDumpRejectsBadInput(t *testing.T) {
	_, err := ParseDump(strings.NewReader(`{"p1": "nope"}`))
	assert.Error(t, err)

	_, err = ParseDump(strings.NewReader(`{"t": [100, -7]}`))
	assert.Error(t, err)

	_, err = ReadDump(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
