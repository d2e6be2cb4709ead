package ir

import "fmt"

// Kind is the tag of an ApiType.
type Kind string

const (
	KindBoolean    Kind = "boolean"
	KindNumber     Kind = "number"
	KindBigint     Kind = "bigint"
	KindString     Kind = "string"
	KindJSON       Kind = "json"
	KindDate       Kind = "date"
	KindEnum       Kind = "enum"
	KindInterface  Kind = "interface"
	KindArray      Kind = "array"
	KindOverride   Kind = "override"
	KindUnresolved Kind = "unresolved"
)

// ApiType is the canonical type of an attribute as seen by clients and
// generated code. Name is set for enum, interface, override and unresolved
// kinds; Element is set only for arrays.
type ApiType struct {
	Kind    Kind     `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Element *ApiType `json:"element,omitempty"`
}

// Boolean, Number, Bigint, String, JSON and Date construct the primitive api
// types, which carry no name or element.
func Boolean() ApiType { return ApiType{Kind: KindBoolean} }
func Number() ApiType  { return ApiType{Kind: KindNumber} }
func Bigint() ApiType  { return ApiType{Kind: KindBigint} }
func String() ApiType  { return ApiType{Kind: KindString} }
func JSON() ApiType    { return ApiType{Kind: KindJSON} }
func Date() ApiType    { return ApiType{Kind: KindDate} }

// EnumRef references an enum by its api name.
func EnumRef(apiName string) ApiType { return ApiType{Kind: KindEnum, Name: apiName} }

// InterfaceRef references a composite type by its api name.
func InterfaceRef(apiName string) ApiType { return ApiType{Kind: KindInterface, Name: apiName} }

// Override is a user-configured replacement type.
func Override(name string) ApiType { return ApiType{Kind: KindOverride, Name: name} }

// Unresolved marks a raw type that matched no classification rule.
func Unresolved(raw string) ApiType { return ApiType{Kind: KindUnresolved, Name: raw} }

// ArrayOf wraps elem in an array.
func ArrayOf(elem ApiType) ApiType {
	return ApiType{Kind: KindArray, Element: &elem}
}

// IsResolved reports whether t and every nested element type are resolved.
func (t ApiType) IsResolved() bool {
	switch t.Kind {
	case KindUnresolved, "":
		return false
	case KindArray:
		return t.Element != nil && t.Element.IsResolved()
	}
	return true
}

// Equal reports whether t and other describe the same type.
func (t ApiType) Equal(other ApiType) bool {
	if t.Kind != other.Kind || t.Name != other.Name {
		return false
	}
	if t.Element == nil || other.Element == nil {
		return t.Element == nil && other.Element == nil
	}
	return t.Element.Equal(*other.Element)
}

func (t ApiType) String() string {
	switch t.Kind {
	case KindArray:
		if t.Element == nil {
			return "array(?)"
		}
		return fmt.Sprintf("array(%s)", t.Element)
	case KindEnum, KindInterface, KindOverride, KindUnresolved:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Name)
	}
	return string(t.Kind)
}
