package lang

import (
	"maps"
	"slices"

	"github.com/ardnew/re0/lang/syntax"
)

// DeclareStatement is a top-level declaration such as
//
//	config main public { port: 8080 }
//
// where "config" is the keyword, "main" the symbol and "public" a modifier.
type DeclareStatement struct {
	Keyword   string
	Symbol    string
	Modifiers []string
	Property  map[string]Node
	Comment   string
	Span      syntax.Span
}

// NewDeclaration builds a declaration from a dictionary body. Entries keyed
// by anything but a symbol are dropped, and a body that is not a dictionary
// yields an empty property map. Each case is reported as a diagnostic; the
// declaration is always returned.
func NewDeclaration(
	keyword, symbol string,
	modifiers []string,
	body Node,
) (*DeclareStatement, Diagnostics) {
	decl := &DeclareStatement{
		Keyword:   keyword,
		Symbol:    symbol,
		Modifiers: modifiers,
		Property:  make(map[string]Node, len(body.Dict)),
		Span:      body.Span,
	}

	if body.Kind != KindDict {
		return decl, Diagnostics{{
			Span:    body.Span,
			Message: "body of " + keyword + " " + symbol + " is " + body.Kind.String() + ", not a dictionary",
		}}
	}

	var diags Diagnostics

	for key, value := range body.Entries() {
		if key.Kind != ValueSymbol {
			diags = append(diags, Diagnostic{
				Span:    value.Span,
				Message: "dropping " + key.Kind.String() + " key " + key.String() + " in " + keyword + " " + symbol,
			})

			continue
		}

		decl.Property[key.Text] = value
	}

	return decl, diags
}

// Names returns the property names of d in sorted order.
func (d *DeclareStatement) Names() []string {
	return slices.Sorted(maps.Keys(d.Property))
}

// Get returns the node at a path of property names, descending through
// nested dictionaries after the first name.
func (d *DeclareStatement) Get(names ...string) (Node, bool) {
	if len(names) == 0 {
		return Node{}, false
	}

	n, ok := d.Property[names[0]]
	if !ok {
		return Node{}, false
	}

	return n.Get(names[1:]...)
}

// GetString returns the first of the named properties that holds a string
// value. Names are alternatives, tried in order; symbols and other values
// are skipped.
func (d *DeclareStatement) GetString(names ...string) (string, bool) {
	for _, name := range names {
		n, ok := d.Property[name]
		if ok && n.Kind == KindValue && n.Value.Kind == ValueString {
			return n.Value.Text, true
		}
	}

	return "", false
}

// Body returns the properties of d as a dictionary node.
func (d *DeclareStatement) Body() Node {
	dict := make(map[Value]Node, len(d.Property))
	for name, n := range d.Property {
		dict[Symbol(name)] = n
	}

	return Node{Kind: KindDict, Span: d.Span, Dict: dict}
}

// Equal reports whether d and o declare the same thing, ignoring spans.
func (d *DeclareStatement) Equal(o *DeclareStatement) bool {
	if d == nil || o == nil {
		return d == o
	}

	return d.Keyword == o.Keyword &&
		d.Symbol == o.Symbol &&
		d.Comment == o.Comment &&
		slices.Equal(d.Modifiers, o.Modifiers) &&
		maps.EqualFunc(d.Property, o.Property, Equal)
}
