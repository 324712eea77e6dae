package firebird

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldTypeName(t *testing.T) {
	tests := []struct {
		name      string
		fieldType int
		subType   int
		scale     int
		want      string
	}{
		{"smallint", typeSmallint, 0, 0, "smallint"},
		{"integer", typeInteger, 0, 0, "integer"},
		{"bigint", typeBigint, 0, 0, "bigint"},
		{"scaled smallint is decimal", typeSmallint, 0, -2, "decimal"},
		{"scaled integer is decimal", typeInteger, 0, -2, "decimal"},
		{"scaled bigint is decimal", typeBigint, 0, -4, "decimal"},
		{"float", typeFloat, 0, 0, "float"},
		{"double", typeDouble, 0, 0, "double precision"},
		{"date", typeDate, 0, 0, "date"},
		{"time", typeTime, 0, 0, "time"},
		{"timestamp", typeTimestamp, 0, 0, "timestamp"},
		{"char", typeChar, 0, 0, "char"},
		{"varchar", typeVarchar, 0, 0, "varchar"},
		{"boolean", typeBoolean, 0, 0, "boolean"},
		{"binary blob", typeBlob, 0, 0, "blob sub_type 0"},
		{"text blob", typeBlob, 1, 0, "blob sub_type 1"},
		{"unknown", 999, 0, 0, "unknown(999)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldTypeName(tt.fieldType, tt.subType, tt.scale))
		})
	}
}
