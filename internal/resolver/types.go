package resolver

// Catalog spellings that select a resolution branch.
const (
	TypeArray       = "ARRAY"
	TypeUserDefined = "USER-DEFINED"
	TypeVoid        = "void"
)

// notNullSuffixes mark a UDT name as non-nullable by naming convention.
var notNullSuffixes = []string{"_not_null", "_required"}

var booleanTypes = set(
	"boolean",
	"bool",
)

var numberTypes = set(
	"int2",
	"int4",
	"smallint",
	"integer",
	"float4",
	"float8",
	"real",
	"double precision",
	"oid",
)

var bigintTypes = set(
	"int8",
	"bigint",
)

var stringTypes = set(
	"text",
	"varchar",
	"character varying",
	"bpchar",
	"character",
	"char",
	"name",
	"citext",
	"uuid",
	"numeric",
	"decimal",
	"money",
	"inet",
	"cidr",
	"macaddr",
	"macaddr8",
	"bytea",
	"interval",
	"time",
	"timetz",
	"time without time zone",
	"time with time zone",
	"xml",
	"tsvector",
	"tsquery",
)

var dateTypes = set(
	"timestamp",
	"timestamptz",
	"timestamp without time zone",
	"timestamp with time zone",
	"date",
)

var jsonTypes = set(
	"json",
	"jsonb",
)

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// PrimitiveNames returns every type name of the fixed classification sets.
func PrimitiveNames() []string {
	var names []string
	for _, s := range []map[string]struct{}{booleanTypes, numberTypes, bigintTypes, stringTypes, dateTypes, jsonTypes} {
		for n := range s {
			names = append(names, n)
		}
	}
	return names
}
