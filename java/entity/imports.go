package entity

import (
	"strings"

	"github.com/dhamidi/livejava/java/types"
)

// Import is one import declaration. Name is the imported class, the
// package or class of a wildcard import, or for a single static import
// the class followed by the member name.
type Import struct {
	Name     string
	Static   bool
	Wildcard bool
}

func (i Import) String() string {
	var sb strings.Builder
	sb.WriteString("import ")
	if i.Static {
		sb.WriteString("static ")
	}
	sb.WriteString(i.Name)
	if i.Wildcard {
		sb.WriteString(".*")
	}
	sb.WriteByte(';')
	return sb.String()
}

// Imports is the import list of a compilation unit or code pad. Imported
// names are resolved on use, from the root resolver, as fully qualified
// names.
type Imports struct {
	list []Import
}

func (im *Imports) Add(i Import) {
	for _, have := range im.list {
		if have == i {
			return
		}
	}
	im.list = append(im.list, i)
}

func (im *Imports) List() []Import {
	return im.list
}

func (im *Imports) Len() int {
	return len(im.list)
}

// Clone returns an independent copy of the list.
func (im *Imports) Clone() *Imports {
	return &Imports{list: append([]Import(nil), im.list...)}
}

// TypeImport resolves a simple name against the single type imports.
func (im *Imports) TypeImport(name string, root Resolver) *TypeEntity {
	for _, i := range im.list {
		if i.Static || i.Wildcard || lastComponent(i.Name) != name {
			continue
		}
		if t, ok := ResolvePath(root, i.Name).(*TypeEntity); ok {
			return t
		}
	}
	return nil
}

// TypeImportWildcard resolves a simple name against the wildcard
// imports of packages and of classes' member types.
func (im *Imports) TypeImportWildcard(name string, root Resolver, access types.Reflective) *TypeEntity {
	for _, i := range im.list {
		if i.Static || !i.Wildcard {
			continue
		}
		scope := ResolvePath(root, i.Name)
		if scope == nil {
			continue
		}
		t, ok := TypeSubentity(scope, name).(*TypeEntity)
		if !ok {
			continue
		}
		if c := t.Class(); c != nil && !Accessible(c.Ref, c.Ref.Modifiers(), access) {
			continue
		}
		return t
	}
	return nil
}

// StaticImports returns the classes that name is statically imported
// from by single static imports.
func (im *Imports) StaticImports(name string, root Resolver) []*TypeEntity {
	var out []*TypeEntity
	for _, i := range im.list {
		if !i.Static || i.Wildcard || lastComponent(i.Name) != name || !strings.Contains(i.Name, ".") {
			continue
		}
		owner := i.Name[:len(i.Name)-len(name)-1]
		if t, ok := ResolvePath(root, owner).(*TypeEntity); ok {
			out = append(out, t)
		}
	}
	return out
}

// StaticWildcardImports returns the classes imported with "import
// static C.*".
func (im *Imports) StaticWildcardImports(root Resolver) []*TypeEntity {
	var out []*TypeEntity
	for _, i := range im.list {
		if !i.Static || !i.Wildcard {
			continue
		}
		if t, ok := ResolvePath(root, i.Name).(*TypeEntity); ok {
			out = append(out, t)
		}
	}
	return out
}

// String renders the list as Java import declarations, one per line.
func (im *Imports) String() string {
	var sb strings.Builder
	for _, i := range im.list {
		sb.WriteString(i.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func lastComponent(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// StaticMember resolves name as a static member of each class in turn
// and returns the first hit.
func StaticMember(classes []*TypeEntity, name string, access types.Reflective) Entity {
	for _, t := range classes {
		if e := Subentity(t, name, access); e != nil {
			return e
		}
	}
	return nil
}
