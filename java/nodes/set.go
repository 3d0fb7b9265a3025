package nodes

import (
	"maps"
	"slices"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/types"
)

// Set resolves qualified names against a collection of units, falling
// back to Parent. A Set must not be changed while it is used for
// lookups; Clone it and swap instead.
type Set struct {
	Parent entity.Resolver
	byPkg  map[string][]*Unit
}

func NewSet(parent entity.Resolver) *Set {
	return &Set{Parent: parent, byPkg: make(map[string][]*Unit)}
}

// Add adds u to the set.
func (s *Set) Add(u *Unit) {
	s.byPkg[u.Package] = append(s.byPkg[u.Package], u)
}

// Remove removes u, if present.
func (s *Set) Remove(u *Unit) {
	units := s.byPkg[u.Package]
	if i := slices.Index(units, u); i >= 0 {
		units = slices.Delete(slices.Clone(units), i, i+1)
		if len(units) == 0 {
			delete(s.byPkg, u.Package)
		} else {
			s.byPkg[u.Package] = units
		}
	}
}

// Clone returns a copy of s that can be changed independently.
func (s *Set) Clone() *Set {
	return &Set{Parent: s.Parent, byPkg: maps.Clone(s.byPkg)}
}

// Units lists the units of package pkg.
func (s *Set) Units(pkg string) []*Unit {
	return s.byPkg[pkg]
}

// Packages lists the packages with at least one unit, sorted.
func (s *Set) Packages() []string {
	return slices.Sorted(maps.Keys(s.byPkg))
}

// Len is the number of units in the set.
func (s *Set) Len() int {
	n := 0
	for _, units := range s.byPkg {
		n += len(units)
	}
	return n
}

// Lookup finds the declaration of a class by binary name.
func (s *Set) Lookup(binary string) *TypeDecl {
	for _, u := range s.byPkg[types.PackageOf(binary)] {
		if d := u.Lookup(binary); d != nil {
			return d
		}
	}
	return nil
}

func (s *Set) ResolveQualifiedClass(name string) *entity.TypeEntity {
	if d := s.Lookup(name); d != nil {
		return &entity.TypeEntity{Type: &types.Class{Ref: d}}
	}
	if s.Parent == nil {
		return nil
	}
	return s.Parent.ResolveQualifiedClass(name)
}

func (s *Set) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := s.ResolveQualifiedClass(name); t != nil {
		return t
	}
	return &entity.Package{Name: name, Resolver: s}
}

func (s *Set) ValueEntity(name string, access types.Reflective) entity.Entity {
	return s.ResolvePackageOrClass(name, access)
}
