package graph

import "fmt"

// Kind enumerates the closed set of runtime data types a connector can
// carry, in place of reflection-based compatibility checks, using the
// smallest closed enum that satisfies every connector assignability rule.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// DataType is the runtime type tag carried by a Connector.
type DataType struct {
	Kind Kind
}

// Any is the wildcard data type: it is assignable to and from anything.
var Any = DataType{Kind: KindAny}

func (d DataType) String() string { return d.Kind.String() }

// ParseKind is the inverse of Kind.String, used by the document package to
// restore a connector's data type from its persisted name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "any":
		return KindAny, nil
	case "string":
		return KindString, nil
	case "number":
		return KindNumber, nil
	case "bool":
		return KindBool, nil
	case "object":
		return KindObject, nil
	case "array":
		return KindArray, nil
	default:
		return 0, fmt.Errorf("graph: unknown data type name %q", s)
	}
}

func TypeOf(k Kind) DataType {
	return DataType{Kind: k}
}

// IsAssignableFrom reports whether a value of type `other` may flow into a
// connector of type `d`. KindAny is a wildcard in either direction; all
// other kinds require an exact match.
func (d DataType) IsAssignableFrom(other DataType) bool {
	if d.Kind == KindAny || other.Kind == KindAny {
		return true
	}
	return d.Kind == other.Kind
}
