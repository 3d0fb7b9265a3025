// Package stdlib is a built-in rendition of the core Java class library:
// the public API of the common java.lang, java.io and java.util types,
// kept as Java source stubs and parsed on load. It stands in for a JDK
// when none is configured.
package stdlib

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/nodes"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/types"
)

//go:embed src
var sources embed.FS

var log = commonlog.GetLogger("livejava.stdlib")

// Library resolves the classes of a stub tree. It is fully resolved
// when returned and safe for concurrent use.
type Library struct {
	set *nodes.Set
}

// New loads the embedded stubs.
func New() (*Library, error) {
	sub, err := fs.Sub(sources, "src")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load parses every .java file of fsys. The package of a file is taken
// from its directory when the file declares none.
func Load(fsys fs.FS) (*Library, error) {
	set := nodes.NewSet(nil)
	var units []*nodes.Unit
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".java" {
			return nil
		}
		f, err := fsys.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		pkg := strings.ReplaceAll(path.Dir(p), "/", ".")
		if pkg == "." {
			pkg = ""
		}
		u, err := nodes.Parse(f, set, pkg, parser.WithFile(p))
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		for _, e := range u.Errors {
			log.Warningf("%s: %s", p, e.Message)
		}
		set.Add(u)
		units = append(units, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load class library: %w", err)
	}
	for _, u := range units {
		u.Resolve()
	}
	log.Debugf("loaded %d stub units in %d packages", len(units), len(set.Packages()))
	return &Library{set: set}, nil
}

// Lookup returns the stub declaration of a class by binary name.
func (l *Library) Lookup(binary string) *nodes.TypeDecl {
	return l.set.Lookup(binary)
}

// Packages lists the packages the library has classes in.
func (l *Library) Packages() []string {
	return l.set.Packages()
}

// Classes lists the binary names of the top level classes of pkg.
func (l *Library) Classes(pkg string) []string {
	var out []string
	for _, u := range l.set.Units(pkg) {
		for _, t := range u.Types {
			out = append(out, t.Binary)
		}
	}
	return out
}

func (l *Library) LoadClass(name string) types.Reflective {
	if d := l.set.Lookup(name); d != nil {
		return d
	}
	return nil
}

func (l *Library) ResolveQualifiedClass(name string) *entity.TypeEntity {
	return l.set.ResolveQualifiedClass(name)
}

func (l *Library) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	return l.set.ResolvePackageOrClass(name, access)
}

func (l *Library) ValueEntity(name string, access types.Reflective) entity.Entity {
	return l.set.ValueEntity(name, access)
}
