// Package lang builds the abstract syntax tree of re0, a small declarative
// language with Latin and Chinese keyword spellings.
//
// Source text is matched by package [syntax] into a span tree, which
// [Build] converts into [Node] values. [ParseString] and [ParseReader] do
// both and return a [Document].
//
// # Language
//
// A document is a list of declarations. Each has a keyword, a symbol, any
// number of modifiers, and a block of entries:
//
//	/// Shown as the declaration's comment.
//	config server public {
//	  port: 8080
//	  timeout: 2.5s
//	  name: "main"
//	  tags: [web, "edge", 3]
//	  limits { rps: 1_000 }
//	  mode: if port >= 1024 { user } else { root }
//	  retry: backoff(1s, 30s)
//	}
//
//	配置 客户端 { 超时： 5秒 }
//
// An entry value is a nested block, a list, or a statement. A statement is
// an expression or a conditional. Expressions are flat: every infix operator
// has the same precedence and they group from the left.
//
// # Values
//
// Literals are null, booleans, symbols, strings and numbers. A number may
// carry a unit suffix written directly after it ("10kg"). [Value] is a
// comparable struct, and its equality is structural over all fields: the
// suffix participates, and integers never equal decimals.
//
// # Errors
//
// Grammar failures ([ErrParse]) and literal conversion failures
// ([ErrLiteral], [ErrMalformedDecimal]) abort the build. Inconsistencies in
// an otherwise valid tree, such as a non-symbol key in a declaration or a
// repeated key, drop the offending entry and are returned as [Diagnostics].
// [WithStrict] turns diagnostics into an [ErrValidation] error.
package lang
