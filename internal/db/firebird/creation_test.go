package firebird

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestParams(t *testing.T) {
	params := &ConnParams{
		Database: "/path/to/database.fdb",
		Host:     "127.0.0.1",
		User:     "SYSDBA",
		Password: "masterkey",
		Options:  map[string]string{"charset": "UTF8"},
	}

	test := TestParams(params)

	assert.Regexp(t, `^/path/to/test_database_[0-9a-f]{8}\.fdb$`, test.Database)
	assert.Equal(t, params.Host, test.Host)
	assert.Equal(t, params.User, test.User)
	assert.Equal(t, params.Options, test.Options)

	// The derived set is independent of the original.
	test.Options["charset"] = "NONE"
	assert.Equal(t, "UTF8", params.Options["charset"])

	other := TestParams(params)
	require.NotEqual(t, test.Database, other.Database)
}

func TestDestroyRefusesRemote(t *testing.T) {
	params := &ConnParams{Database: "/path/to/database.fdb", Host: "db.example.com"}
	err := params.DestroyDatabase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote")
}
