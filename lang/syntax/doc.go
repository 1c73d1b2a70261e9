// Package syntax implements the re0 grammar: a backtracking PEG matcher
// that turns UTF-8 source text into a tree of rule-tagged spans.
//
// Every rule in the catalog ([Rule]) has one matching function. Rules
// compose with sequence, ordered choice, repetition, optional, and
// positive or negative lookahead. The first alternative of a choice that
// matches wins; on total failure the parser reports the furthest byte
// offset any attempt reached and the rules still viable there ([Error]).
//
// # Atomicity
//
// Non-atomic rules skip whitespace and comments between the elements of a
// sequence and between repetitions. Compound-atomic rules never skip but
// still capture their inner rules. Atomic rules never skip and capture only
// their own span.
//
// # Grammar
//
// Informal PEG (terminals quoted, ~ is the implicit skip):
//
//	program          = SOI ~ declare_statement* ~ EOI
//	declare_statement= symbol ~ symbol ~ modifiers? ~ declare_block
//	declare_block    = "{" ~ (separator | declare_pair)* ~ "}"
//	declare_pair     = key ~ colon? ~ declare_block
//	                 | key ~ colon? ~ list_block
//	                 | key ~ colon ~ statements
//	statements       = if_statement | expression
//	if_statement     = kw_if ~ expression ~ block ~ else_statement?
//	else_statement   = kw_else ~ (block | if_statement)
//	block            = "{" ~ statements* ~ "}"
//	expression       = term ~ (op_infix ~ term)*
//	term             = data ~ call_suffix?
//	call_suffix      = "(" ~ (expression ~ (separator ~ expression)* ~ separator?)? ~ ")"
//	list_block       = "[" ~ (data | separator)* ~ "]" | "【" ... "】"
//	data             = special | number | string | symbol
//	number           = signed_number symbol?             (compound-atomic)
//	signed_number    = sign? (decimal | decimal_bad | integer)
//	decimal          = integer dot digit+
//	decimal_bad      = integer dot | dot digit+
//	integer          = [0-9] ("_"? [0-9])*
//
// Keywords come in two spellings: "if", "若" or "如果" introduce a
// conditional and "else" or "否则" its alternative. Infix operators accept
// the ASCII forms and their Chinese phrases, for example ">=", "大于等于"
// and "不小于" are the same operator. Strings may be quoted with '…', "…",
// “…”, ‹…› or «…».
//
// Comments are "///" or "、" to end of line (kept in the tree so that
// documentation can be attached to declarations), "//" to end of line, and
// nesting "/* … */" blocks.
package syntax
