// Package ir holds the resolved schema graph produced by discovery.
//
// The graph is assembled once and is treated as read-only afterwards. Every
// type is a plain record so the whole graph can be encoded as JSON and handed
// to a code generator or to the query client.
package ir

// Schema is the resolved metadata graph for one database schema.
type Schema struct {
	Name       string       `json:"name"`
	Enums      []*Enum      `json:"enums"`
	Composites []*Composite `json:"composites"`
	Tables     []*Table     `json:"tables"`
	Views      []*View      `json:"views"`
	Functions  []*Function  `json:"functions"`
	Domains    []*Domain    `json:"domains"`
}

// Enum is a database enum type with its labels in sort order.
type Enum struct {
	Name    string      `json:"name"`
	ApiName string      `json:"apiName"`
	Fields  []EnumField `json:"fields"`
}

// EnumField is one enum label.
type EnumField struct {
	Name  string  `json:"name"`
	Order float64 `json:"order"`
}

// Composite is a user-defined structured type.
type Composite struct {
	Name       string       `json:"name"`
	ApiName    string       `json:"apiName"`
	Attributes []*Attribute `json:"attributes"`
}

// Table is a base table.
type Table struct {
	Name       string       `json:"name"`
	ApiName    string       `json:"apiName"`
	Attributes []*Attribute `json:"attributes"`
}

// View is a view, with the catalog's updatable/insertable flags.
type View struct {
	Name       string       `json:"name"`
	ApiName    string       `json:"apiName"`
	Updatable  bool         `json:"updatable"`
	Insertable bool         `json:"insertable"`
	Attributes []*Attribute `json:"attributes"`
}

// Function is a callable routine. ReturnType is nil for void functions.
type Function struct {
	Name       string       `json:"name"`
	ApiName    string       `json:"apiName"`
	ReturnType *ApiType     `json:"returnType,omitempty"`
	ReturnsSet bool         `json:"returnsSet"`
	Parameters []*Attribute `json:"parameters"`
}

// Domain is a named alias of a base type.
type Domain struct {
	Name     string  `json:"name"`
	ApiName  string  `json:"apiName"`
	BaseType string  `json:"baseType"`
	NotNull  bool    `json:"notNull"`
	Comment  string  `json:"comment,omitempty"`
	ApiType  ApiType `json:"apiType"`
}

// Attribute is a column, composite attribute or function parameter.
type Attribute struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Udt      string  `json:"udt,omitempty"`
	Order    int     `json:"order"`
	Nullable bool    `json:"nullable"`
	ApiType  ApiType `json:"apiType"`
}

// Table returns the table with the given database name, or nil.
func (s *Schema) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// View returns the view with the given database name, or nil.
func (s *Schema) View(name string) *View {
	for _, v := range s.Views {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Function returns the function with the given database name, or nil.
func (s *Schema) Function(name string) *Function {
	for _, f := range s.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Enum returns the enum with the given database name, or nil.
func (s *Schema) Enum(name string) *Enum {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Composite returns the composite type with the given database name, or nil.
func (s *Schema) Composite(name string) *Composite {
	for _, c := range s.Composites {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Attribute returns the attribute with the given name, or nil.
func (t *Table) Attribute(name string) *Attribute {
	return findAttribute(t.Attributes, name)
}

// Attribute returns the attribute with the given name, or nil.
func (v *View) Attribute(name string) *Attribute {
	return findAttribute(v.Attributes, name)
}

// Columns returns the column names in ordinal order.
func (t *Table) Columns() []string {
	return attributeNames(t.Attributes)
}

// Columns returns the column names in ordinal order.
func (v *View) Columns() []string {
	return attributeNames(v.Attributes)
}

func findAttribute(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func attributeNames(attrs []*Attribute) []string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}
