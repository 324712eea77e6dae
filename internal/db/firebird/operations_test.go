package firebird

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteName(t *testing.T) {
	ops := Operations{}
	assert.Equal(t, `"title"`, ops.QuoteName("title"))
	assert.Equal(t, `"odd""name"`, ops.QuoteName(`odd"name`))
	// Already-quoted names pass through.
	assert.Equal(t, `"title"`, ops.QuoteName(`"title"`))
}

func TestQuoteValue(t *testing.T) {
	ops := Operations{}

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, "NULL"},
		{"string", "plain", "'plain'"},
		{"string with quote", "O'Neil", "'O''Neil'"},
		{"bytes", []byte{0xde, 0xad, 0xbe, 0xef}, "x'deadbeef'"},
		{"bool true", true, "TRUE"},
		{"bool false", false, "FALSE"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 2.5, "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ops.QuoteValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteValueTime(t *testing.T) {
	ops := Operations{}

	zone := time.FixedZone("UTC+2", 2*60*60)
	aware := time.Date(2026, 8, 23, 14, 30, 0, 0, zone)

	got, err := ops.QuoteValue(aware)
	require.NoError(t, err)
	// Stored naive, in UTC.
	assert.Equal(t, "'2026-08-23 12:30:00'", got)
}

func TestQuoteValueUnsupported(t *testing.T) {
	_, err := Operations{}.QuoteValue(struct{}{})
	require.Error(t, err)
}

func TestOperatorLookup(t *testing.T) {
	ops := Operations{}

	op, ok := ops.Operator("iexact")
	require.True(t, ok)
	assert.Equal(t, "= UPPER(%s)", op)

	op, ok = ops.Operator("icontains")
	require.True(t, ok)
	assert.Equal(t, "LIKE UPPER(%s) ESCAPE'\\'", op)

	_, ok = ops.Operator("overlaps")
	assert.False(t, ok)
}

func TestPatternEscEscapesSingleWildcards(t *testing.T) {
	// The fragment reaches the engine as written, so each LIKE wildcard
	// must be escaped as a single character.
	assert.Equal(t,
		`REPLACE(REPLACE(REPLACE({}, '\', '\\'), '%', '\%'), '_', '\_')`,
		PatternEsc)
	assert.NotContains(t, PatternEsc, "%%")
}

func TestPatternOps(t *testing.T) {
	tests := []struct {
		lookup string
		want   string
	}{
		{"contains", "LIKE '%' || {} || '%'"},
		{"icontains", "LIKE '%' || UPPER({}) || '%'"},
		{"startswith", "LIKE {} || '%'"},
		{"istartswith", "LIKE UPPER({}) || '%'"},
		{"endswith", "LIKE '%' || {}"},
		{"iendswith", "LIKE '%' || UPPER({})"},
	}
	for _, tt := range tests {
		t.Run(tt.lookup, func(t *testing.T) {
			got, ok := PatternOps[tt.lookup]
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "%%")
		})
	}
}

func TestAdaptTime(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	aware := time.Date(2026, 1, 2, 20, 0, 0, 0, zone)
	adapted := Operations{}.AdaptTime(aware)
	assert.Equal(t, time.UTC, adapted.Location())
	assert.Equal(t, 1, adapted.Hour())
	assert.Equal(t, 3, adapted.Day())
}

func TestMaxNameLength(t *testing.T) {
	assert.Equal(t, 31, Operations{}.MaxNameLength())
}

func TestInlineParams(t *testing.T) {
	got, err := InlineParams("UPDATE \"t\" SET \"name\" = ? WHERE \"id\" = ?", "O'Neil", 7)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE \"t\" SET \"name\" = 'O''Neil' WHERE \"id\" = 7", got)
}

func TestInlineParamsNoParams(t *testing.T) {
	got, err := InlineParams("SELECT 1 FROM RDB$DATABASE")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 FROM RDB$DATABASE", got)
}

func TestInlineParamsArityMismatch(t *testing.T) {
	_, err := InlineParams("SELECT ? FROM RDB$DATABASE", 1, 2)
	require.Error(t, err)

	_, err = InlineParams("SELECT ?, ? FROM RDB$DATABASE", 1)
	require.Error(t, err)
}
