// Package codepad analyzes the text typed into an interactive code pad:
// an import, some variable declarations, an expression or any other
// statement. Expressions are typed statically against a resolver and
// the values the user already has on the object bench.
package codepad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

var (
	// ErrNotStatement reports that text is not the kind of statement
	// that was tried.
	ErrNotStatement = errors.New("not a statement of this kind")
	// ErrNotExpression reports that text is not a single expression.
	ErrNotExpression = errors.New("not an expression")
)

// Bench holds named values the code pad can refer to.
type Bench interface {
	// NamedValue returns the static type of the value called name, or
	// nil if there is none.
	NamedValue(name string) types.Type
}

// Values is a Bench backed by a map.
type Values map[string]types.Type

func (v Values) NamedValue(name string) types.Type {
	return v[name]
}

// Kind is what a command turned out to be.
type Kind int

const (
	KindStatement Kind = iota
	KindImport
	KindDeclaration
	KindExpression
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindDeclaration:
		return "declaration"
	case KindExpression:
		return "expression"
	}
	return "statement"
}

// DeclaredVar is a variable declared by a command. Type is nil when it
// is declared with "var" or cannot be resolved.
type DeclaredVar struct {
	Name        string
	Type        types.Type
	Initialized bool
	Final       bool
}

// Result describes a parsed command.
type Result struct {
	Kind Kind
	// Type is the static type of an expression, empty when it cannot be
	// determined.
	Type string
	// Vars are the variables of a declaration.
	Vars []DeclaredVar
	// Amended is the command to execute: declarations get default
	// initializers, and an import executes nothing.
	Amended string
}

// Analyzer parses code pad commands for one evaluation package. It
// keeps the imports of confirmed commands and is not safe for concurrent
// use.
type Analyzer struct {
	parent  entity.Resolver
	pkg     string
	bench   Bench
	imports *entity.Imports
	pending *entity.Import
	text    string
}

// New returns an analyzer that resolves classes with parent and
// evaluates in package pkg. bench may be nil.
func New(parent entity.Resolver, pkg string, bench Bench) *Analyzer {
	if bench == nil {
		bench = Values(nil)
	}
	return &Analyzer{parent: parent, pkg: pkg, bench: bench, imports: &entity.Imports{}}
}

// Reset forgets all imports.
func (a *Analyzer) Reset() {
	a.imports = &entity.Imports{}
	a.pending = nil
	a.text = ""
}

// ParseCommand works out what command is. It tries, in turn, an import,
// variable declarations and an expression; anything else is a plain
// statement. An import only takes effect once ConfirmCommand is called.
func (a *Analyzer) ParseCommand(command string) (*Result, error) {
	a.pending = nil
	a.text = ""

	imp, err := a.parseImport(command)
	if err == nil {
		a.pending = &imp
		a.text = command
		return &Result{Kind: KindImport}, nil
	}
	if !errors.Is(err, ErrNotStatement) {
		return nil, err
	}

	vars, err := a.parseVars(command)
	if err == nil {
		return &Result{Kind: KindDeclaration, Vars: vars, Amended: amend(command, vars)}, nil
	}
	if !errors.Is(err, ErrNotStatement) {
		return nil, err
	}

	t, err := a.ExpressionType(command)
	if err == nil {
		res := &Result{Kind: KindExpression, Amended: command}
		if t != nil {
			res.Type = t.String()
		}
		return res, nil
	}
	if !errors.Is(err, ErrNotExpression) {
		return nil, err
	}
	return &Result{Kind: KindStatement, Amended: command}, nil
}

// ConfirmCommand records the import of the last parsed command, once it
// has executed. It fails if the imported name does not resolve.
func (a *Analyzer) ConfirmCommand() error {
	if a.pending == nil {
		return nil
	}
	imp := *a.pending
	a.pending = nil
	a.text = ""
	if !a.importResolves(imp) {
		return fmt.Errorf("cannot resolve %s", imp)
	}
	a.imports.Add(imp)
	return nil
}

// ImportStatements renders the confirmed imports followed by a pending
// one.
func (a *Analyzer) ImportStatements() string {
	return a.imports.String() + a.text
}

// Imports lists the confirmed imports.
func (a *Analyzer) Imports() []entity.Import {
	return a.imports.List()
}

func (a *Analyzer) importResolves(imp entity.Import) bool {
	name := imp.Name
	if imp.Static && !imp.Wildcard {
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return false
		}
		name = name[:i]
	}
	switch entity.ResolvePath(a.parent, name).(type) {
	case *entity.TypeEntity:
		return true
	case *entity.Package:
		return imp.Wildcard && !imp.Static
	}
	return false
}

func (a *Analyzer) parseImport(command string) (entity.Import, error) {
	var rec parser.Recorder
	p := parser.ParseImport(strings.NewReader(command), &rec)
	if err := p.Finish(); err != nil {
		return entity.Import{}, err
	}
	if p.HadError() {
		return entity.Import{}, ErrNotStatement
	}
	for _, e := range rec.Events {
		if imp, ok := e.(parser.Import); ok {
			names := make([]string, len(imp.Name))
			for i, tok := range imp.Name {
				names[i] = tok.Literal
			}
			return entity.Import{Name: strings.Join(names, "."), Static: imp.Static, Wildcard: imp.Wildcard}, nil
		}
	}
	return entity.Import{}, ErrNotStatement
}

// varCollector gathers the declarators of local variable declarations.
type varCollector struct {
	a     *Analyzer
	final bool
	typ   []parser.Token
	depth int
	vars  []DeclaredVar
}

func (c *varCollector) HandleEvent(e parser.Event) {
	switch e := e.(type) {
	case parser.Modifier:
		if c.depth == 0 && e.Token.Kind == parser.TokenFinal {
			c.final = true
		}
	case parser.LocalVarDecl:
		c.depth++
		if c.depth == 1 {
			c.typ = e.Type
		}
	case parser.VarName:
		if c.depth != 1 {
			return
		}
		c.vars = append(c.vars, DeclaredVar{
			Name:        e.Name.Literal,
			Type:        c.a.declaredType(c.typ, e.Dims),
			Initialized: e.Init,
			Final:       c.final,
		})
	case parser.EndLocalVar:
		c.depth--
		if c.depth == 0 {
			c.final = false
			c.typ = nil
		}
	}
}

func (a *Analyzer) declaredType(toks []parser.Token, dims int) types.Type {
	spec, ok := entity.ParseTypeSpec(toks)
	if !ok || spec.IsVar() {
		return nil
	}
	spec.Dims += dims
	return spec.Resolve(a, nil)
}

func (a *Analyzer) parseVars(command string) ([]DeclaredVar, error) {
	c := &varCollector{a: a}
	p := parser.ParseVariableDeclarations(strings.NewReader(command), c)
	if err := p.Finish(); err != nil {
		return nil, err
	}
	if p.HadError() || len(c.vars) == 0 {
		return nil, ErrNotStatement
	}
	return c.vars, nil
}

// amend appends a default initialization for every variable declared
// without an initializer, so that the command can run as written.
func amend(command string, vars []DeclaredVar) string {
	var sb strings.Builder
	sb.WriteString(command)
	for _, v := range vars {
		if v.Initialized || v.Final {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(v.Name)
		sb.WriteString(" = ")
		sb.WriteString(defaultValue(v.Type))
		sb.WriteString(";\n")
	}
	return sb.String()
}

func defaultValue(t types.Type) string {
	p, ok := t.(*types.Primitive)
	switch {
	case !ok:
		return "null"
	case p.IsNumeric():
		return "0"
	}
	return "false"
}

// ExpressionType parses text as a single expression and returns its
// static type. The type is nil when it cannot be determined; the error
// is ErrNotExpression when text is not an expression.
func (a *Analyzer) ExpressionType(text string) (types.Type, error) {
	p := parser.ParseExpression(strings.NewReader(text), nil)
	if err := p.Finish(); err != nil {
		return nil, err
	}
	if p.HadError() || p.Expr() == nil {
		return nil, ErrNotExpression
	}
	return newTyper(a).typeOf(p.Expr()), nil
}

func (a *Analyzer) ResolveQualifiedClass(name string) *entity.TypeEntity {
	return a.parent.ResolveQualifiedClass(name)
}

// ResolvePackageOrClass looks a simple name up the way code in the
// evaluation package sees it: single type imports, the package itself,
// java.lang, on demand imports, then whatever class the parent scope
// knows by that name.
func (a *Analyzer) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := a.imports.TypeImport(name, a.parent); t != nil {
		return t
	}
	if t := a.parent.ResolveQualifiedClass(entity.Qualify(a.pkg, name)); t != nil {
		return t
	}
	if t := a.parent.ResolveQualifiedClass("java.lang." + name); t != nil {
		return t
	}
	if t := a.imports.TypeImportWildcard(name, a.parent, access); t != nil {
		return t
	}
	if t, ok := a.parent.ResolvePackageOrClass(name, access).(*entity.TypeEntity); ok {
		return t
	}
	return &entity.Package{Name: name, Resolver: a.parent}
}

// ValueEntity resolves a simple name to a bench value first, then to a
// statically imported field, then to a variable of the parent scope.
func (a *Analyzer) ValueEntity(name string, access types.Reflective) entity.Entity {
	if t := a.bench.NamedValue(name); t != nil {
		return &entity.Value{Type: t}
	}
	if v := entity.StaticMember(a.imports.StaticImports(name, a.parent), name, access); v != nil {
		return v
	}
	if v := entity.StaticMember(a.imports.StaticWildcardImports(a.parent), name, access); v != nil {
		if _, ok := v.(*entity.Value); ok {
			return v
		}
	}
	if v, ok := a.parent.ValueEntity(name, access).(*entity.Value); ok {
		return v
	}
	return a.ResolvePackageOrClass(name, access)
}
