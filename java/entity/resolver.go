package entity

import "github.com/dhamidi/livejava/java/types"

// Resolver looks names up in some scope. Every method returns nil when
// the name is not known.
type Resolver interface {
	// ResolveQualifiedClass finds a class by its fully qualified name,
	// with '$' separating nested classes.
	ResolveQualifiedClass(name string) *TypeEntity
	// ResolvePackageOrClass resolves a simple name used where a type or
	// package is expected. The result is a *TypeEntity or *Package.
	ResolvePackageOrClass(name string, access types.Reflective) Entity
	// ValueEntity resolves a simple name used where a value is expected,
	// falling back to ResolvePackageOrClass.
	ValueEntity(name string, access types.Reflective) Entity
}

// PackageResolver resolves simple names as seen from code in package
// Pkg with no imports: the package's own classes, then java.lang, then a
// package of that name. Qualified lookups go to Parent.
type PackageResolver struct {
	Parent Resolver
	Pkg    string
}

func (r *PackageResolver) ResolveQualifiedClass(name string) *TypeEntity {
	if r.Parent == nil {
		return nil
	}
	return r.Parent.ResolveQualifiedClass(name)
}

func (r *PackageResolver) ResolvePackageOrClass(name string, access types.Reflective) Entity {
	if t := r.ResolveQualifiedClass(Qualify(r.Pkg, name)); t != nil {
		return t
	}
	if t := r.ResolveQualifiedClass("java.lang." + name); t != nil {
		return t
	}
	return &Package{Name: name, Resolver: r.Parent}
}

func (r *PackageResolver) ValueEntity(name string, access types.Reflective) Entity {
	return r.ResolvePackageOrClass(name, access)
}

// Qualify prefixes name with pkg, if pkg is not the default package.
func Qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// ResolvePath resolves a fully qualified dotted name from a root
// resolver, treating the first component as a package.
func ResolvePath(root Resolver, name string) Entity {
	var cur Entity
	start := 0
	for i := 0; i <= len(name); i++ {
		if i < len(name) && name[i] != '.' {
			continue
		}
		part := name[start:i]
		start = i + 1
		if cur == nil {
			cur = &Package{Name: part, Resolver: root}
			continue
		}
		if cur = TypeSubentity(cur, part); cur == nil {
			return nil
		}
	}
	return cur
}

type loader struct {
	r Resolver
}

func (l loader) LoadClass(name string) types.Reflective {
	t := l.r.ResolveQualifiedClass(name)
	if t == nil {
		return nil
	}
	if c := t.Class(); c != nil {
		return c.Ref
	}
	return nil
}

// Loader adapts r to the types.Loader the type system boxes with.
func Loader(r Resolver) types.Loader {
	if r == nil {
		return nil
	}
	return loader{r}
}
