package sqlgen

import "strings"

// CodeBuilder assembles indented text line by line. Indentation is applied
// to the first write of every line.
type CodeBuilder struct {
	out       strings.Builder
	unit      string
	depth     int
	lineStart bool
}

// NewCodeBuilder creates a CodeBuilder indenting with two spaces.
func NewCodeBuilder() *CodeBuilder {
	return &CodeBuilder{unit: "  ", lineStart: true}
}

// Push appends text to the current line.
func (b *CodeBuilder) Push(parts ...string) *CodeBuilder {
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.lineStart {
			b.out.WriteString(strings.Repeat(b.unit, b.depth))
			b.lineStart = false
		}
		b.out.WriteString(p)
	}
	return b
}

// Line appends text and ends the line.
func (b *CodeBuilder) Line(parts ...string) *CodeBuilder {
	b.Push(parts...)
	b.out.WriteString("\n")
	b.lineStart = true
	return b
}

func (b *CodeBuilder) Indent() *CodeBuilder {
	b.depth++
	return b
}

func (b *CodeBuilder) Dedent() *CodeBuilder {
	if b.depth > 0 {
		b.depth--
	}
	return b
}

// When runs fn only if cond holds.
func (b *CodeBuilder) When(cond bool, fn func(b *CodeBuilder)) *CodeBuilder {
	if cond {
		fn(b)
	}
	return b
}

// Each runs fn once per index in [0, n).
func (b *CodeBuilder) Each(n int, fn func(b *CodeBuilder, i int)) *CodeBuilder {
	for i := 0; i < n; i++ {
		fn(b, i)
	}
	return b
}

// Join appends parts separated by sep.
func (b *CodeBuilder) Join(parts []string, sep string) *CodeBuilder {
	return b.Push(strings.Join(parts, sep))
}

func (b *CodeBuilder) String() string {
	return b.out.String()
}
