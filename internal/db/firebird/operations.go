package firebird

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fbsql/fbsql/internal/db"
)

// Operators maps generic lookup names to Firebird comparison fragments.
// Firebird has no native regex operator; SIMILAR TO is the closest match
// and is case sensitive, so regex and iregex share it.
var Operators = map[string]string{
	"exact":       "= %s",
	"iexact":      "= UPPER(%s)",
	"contains":    "LIKE %s ESCAPE'\\'",
	"icontains":   "LIKE UPPER(%s) ESCAPE'\\'",
	"regex":       "SIMILAR TO %s",
	"iregex":      "SIMILAR TO %s",
	"gt":          "> %s",
	"gte":         ">= %s",
	"lt":          "< %s",
	"lte":         "<= %s",
	"startswith":  "LIKE %s ESCAPE'\\'",
	"endswith":    "LIKE %s ESCAPE'\\'",
	"istartswith": "LIKE UPPER(%s) ESCAPE'\\'",
	"iendswith":   "LIKE UPPER(%s) ESCAPE'\\'",
}

// PatternOps builds LIKE clauses when the right-hand side is an
// expression rather than a literal pattern. {} marks the expression slot.
// The fragments reach the engine verbatim, so wildcards appear as single
// characters.
var PatternOps = map[string]string{
	"contains":    "LIKE '%' || {} || '%'",
	"icontains":   "LIKE '%' || UPPER({}) || '%'",
	"startswith":  "LIKE {} || '%'",
	"istartswith": "LIKE UPPER({}) || '%'",
	"endswith":    "LIKE '%' || {}",
	"iendswith":   "LIKE '%' || UPPER({})",
}

// PatternEsc escapes LIKE wildcards inside an expression, database side.
const PatternEsc = `REPLACE(REPLACE(REPLACE({}, '\', '\\'), '%', '\%'), '_', '\_')`

// Operations implements the db.Dialect interface for Firebird.
type Operations struct{}

var _ db.Dialect = Operations{}

// QuoteName wraps an identifier in double quotes. Already-quoted names
// pass through unchanged.
func (Operations) QuoteName(name string) string {
	if strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteValue renders a Go value as a Firebird literal: strings with
// doubled single quotes, byte slices as hex blob literals, timestamps in
// the engine's naive format.
func (Operations) QuoteValue(v interface{}) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case []byte:
		return "x'" + hex.EncodeToString(v) + "'", nil
	case time.Time:
		return "'" + Operations{}.AdaptTime(v).Format("2006-01-02 15:04:05") + "'", nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot quote value of type %T", v)
	}
}

// Operator looks up a generic lookup name.
func (Operations) Operator(lookup string) (string, bool) {
	op, ok := Operators[lookup]
	return op, ok
}

// AdaptTime strips the zone: Firebird columns store naive timestamps, so
// aware values are converted to UTC first.
func (Operations) AdaptTime(t time.Time) time.Time {
	return t.UTC()
}

// MaxNameLength is the Firebird identifier limit.
func (Operations) MaxNameLength() int {
	return 31
}

// InlineParams substitutes quoted literals for ? placeholders. The
// schema editor needs this for statements the engine will not prepare
// with parameters, such as column defaults.
func InlineParams(query string, params ...interface{}) (string, error) {
	if len(params) == 0 {
		return query, nil
	}
	var b strings.Builder
	idx := 0
	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}
		if idx >= len(params) {
			return "", fmt.Errorf("query has more placeholders than the %d params given", len(params))
		}
		lit, err := Operations{}.QuoteValue(params[idx])
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		idx++
	}
	if idx != len(params) {
		return "", fmt.Errorf("query has %d placeholders but %d params were given", idx, len(params))
	}
	return b.String(), nil
}
