package query

// Operator is a comparison keyword rendered between column and value.
type Operator string

const (
	IsNull       Operator = "is null"
	IsNotNull    Operator = "is not null"
	IsTrue       Operator = "is true"
	IsNotTrue    Operator = "is not true"
	IsFalse      Operator = "is false"
	IsNotFalse   Operator = "is not false"
	IsUnknown    Operator = "is unknown"
	IsNotUnknown Operator = "is not unknown"
)

const (
	Eq                Operator = "="
	Ne                Operator = "<>"
	Gt                Operator = ">"
	Lt                Operator = "<"
	Gte               Operator = ">="
	Lte               Operator = "<="
	IsDistinctFrom    Operator = "is distinct from"
	IsNotDistinctFrom Operator = "is not distinct from"
	Like              Operator = "like"
	NotLike           Operator = "not like"
	ILike             Operator = "ilike"
	NotILike          Operator = "not ilike"
	SimilarTo         Operator = "similar to"
	NotSimilarTo      Operator = "not similar to"
	Match             Operator = "~"
	IMatch            Operator = "~*"
	NotMatch          Operator = "!~"
	NotIMatch         Operator = "!~*"
	StartsWith        Operator = "^@"
)

const (
	Between             Operator = "between"
	NotBetween          Operator = "not between"
	BetweenSymmetric    Operator = "between symmetric"
	NotBetweenSymmetric Operator = "not between symmetric"
)

// Arity is the number of operands an operator takes, counting the column.
type Arity int

const (
	Unary   Arity = 1
	Binary  Arity = 2
	Ternary Arity = 3
)

var arities = map[Operator]Arity{
	IsNull: Unary, IsNotNull: Unary, IsTrue: Unary, IsNotTrue: Unary,
	IsFalse: Unary, IsNotFalse: Unary, IsUnknown: Unary, IsNotUnknown: Unary,

	Eq: Binary, Ne: Binary, Gt: Binary, Lt: Binary, Gte: Binary, Lte: Binary,
	IsDistinctFrom: Binary, IsNotDistinctFrom: Binary,
	Like: Binary, NotLike: Binary, ILike: Binary, NotILike: Binary,
	SimilarTo: Binary, NotSimilarTo: Binary,
	Match: Binary, IMatch: Binary, NotMatch: Binary, NotIMatch: Binary,
	StartsWith: Binary,

	Between: Ternary, NotBetween: Ternary, BetweenSymmetric: Ternary, NotBetweenSymmetric: Ternary,
}

// Arity returns the operator's arity and whether it is known.
func (o Operator) Arity() (Arity, bool) {
	a, ok := arities[o]
	return a, ok
}

// Lookup reports whether v is a known operator token.
func Lookup(v any) (Operator, bool) {
	var op Operator
	switch t := v.(type) {
	case Operator:
		op = t
	case string:
		op = Operator(t)
	default:
		return "", false
	}
	_, ok := arities[op]
	return op, ok
}
