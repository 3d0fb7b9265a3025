// Package parser is an error-tolerant, event-driven parser for Java
// source code.
//
// # Overview
//
// The parser does not build a syntax tree for declarations and
// statements. It walks the grammar and reports what it recognises as a
// stream of events to a Listener:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │  (events)   │
//	└─────────────┘     └─────────────┘     └──────┬──────┘
//	                                               │
//	                          ┌────────────────────┼────────────────────┐
//	                          ▼                    ▼                    ▼
//	                   ┌─────────────┐      ┌─────────────┐      ┌─────────────┐
//	                   │  ClassInfo  │      │  Node tree  │      │  Recorder   │
//	                   │  extractor  │      │   builder   │      │   (tests)   │
//	                   └─────────────┘      └─────────────┘      └─────────────┘
//
// Several consumers can share one walk through Listeners.
//
// # Usage
//
//	var rec parser.Recorder
//	p := parser.ParseCompilationUnit(strings.NewReader(src), &rec, parser.WithFile("A.java"))
//	if err := p.Finish(); err != nil {
//	    return err
//	}
//	for _, e := range rec.Events {
//	    fmt.Println(parser.Describe(e))
//	}
//
// ParseExpression and ParseStatements parse fragments instead of whole
// files; ParseExpression also returns an expression tree through Expr.
//
// # Events
//
// Every declaration opens with an event carrying its first token, with
// modifiers and annotations included, and closes with an event carrying
// its last token. Modifier and Annotation events precede the declaration
// they belong to; ModifiersConsumed follows the opening event. A method
// reports, in order:
//
//	Modifier*  MethodDecl  ModifiersConsumed  TypeParam*  TypeSpec(return)
//	  (Modifier* ModifiersConsumed TypeSpec(param) ArrayDeclarator* MethodParam)*
//	  AllMethodParams  TypeSpec(throws)*  BeginMethodBody ... EndMethodBody  EndMethod
//
// Types are reported whole as TypeSpec events, with the tokens as written
// ("Map<String, List<T>>[]"). Names used as values are reported as
// ValueName events; their meaning is decided by resolution later.
//
// # Error Recovery
//
// A syntax error is reported as an Error event and parsing resumes:
//
//   - inside a statement, at the next ';' or before the next '}'
//   - inside a type body, at the next member
//   - at top level, at the next import or type declaration
//
// Closing events for constructs cut short carry Included=false and the
// first token after the construct. Finish only fails on read errors;
// HadError and Incomplete report the state of the last parse.
//
// # Source Positions
//
// Offsets count bytes; lines and columns are 1-based and columns count
// characters. WithStartLine shifts line numbers for fragments taken out
// of a larger file.
package parser
