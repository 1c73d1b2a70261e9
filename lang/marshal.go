package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Document.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToMap())
}

// ToMap converts the document to a native Go map keyed by declaration
// symbol. A later declaration with the same symbol replaces an earlier one.
func (d *Document) ToMap() map[string]any {
	result := make(map[string]any, len(d.Root.Root))

	for decl := range d.Declarations() {
		result[decl.Symbol] = decl.ToNative()
	}

	return result
}

// ToNative converts the declaration to a map of its properties. The
// keyword, modifiers and doc comment are kept under parenthesized keys,
// which no property name can collide with.
func (d *DeclareStatement) ToNative() map[string]any {
	result := make(map[string]any, len(d.Property)+3)
	result["(keyword)"] = d.Keyword

	if len(d.Modifiers) > 0 {
		mods := make([]any, len(d.Modifiers))
		for i, m := range d.Modifiers {
			mods[i] = m
		}

		result["(modifiers)"] = mods
	}

	if d.Comment != "" {
		result["(comment)"] = d.Comment
	}

	for name, n := range d.Property {
		result[name] = n.ToNative()
	}

	return result
}

// ToNative converts the node to plain Go values: maps, slices and the
// scalars of [Value.ToNative]. Expressions become their source text.
func (n Node) ToNative() any {
	switch n.Kind {
	case KindValue:
		return n.Value.ToNative()

	case KindDict:
		result := make(map[string]any, len(n.Dict))
		for k, v := range n.Dict {
			result[k.key()] = v.ToNative()
		}

		return result

	case KindBlock:
		result := make([]any, len(n.Block))
		for i, c := range n.Block {
			result[i] = c.ToNative()
		}

		return result

	case KindExpression:
		return FormatNode(n)

	case KindFunctionCall:
		args := make([]any, len(n.Call.Args))
		for i, a := range n.Call.Args {
			args[i] = a.ToNative()
		}

		return map[string]any{"(call)": n.Call.Name, "(args)": args}

	case KindIfStatement:
		var branches []any
		for b := range n.If.Branches() {
			branches = append(branches, map[string]any{
				"(when)": b.Condition.ToNative(),
				"(then)": b.Body.ToNative(),
			})
		}

		return map[string]any{"(if)": branches}

	case KindRoot:
		result := make(map[string]any, len(n.Root))
		for _, decl := range n.Root {
			result[decl.Symbol] = decl.ToNative()
		}

		return result

	default:
		return nil
	}
}
