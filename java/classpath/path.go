// Package classpath finds compiled classes in directories, jar files and
// jmod files, and presents them as types.Reflective declarations.
package classpath

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/livejava/classfile"
	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/types"
)

var log = commonlog.GetLogger("livejava.classpath")

// ErrNotFound is returned by Find for a class no entry of the path has.
var ErrNotFound = errors.New("class not found")

// jmodHeader precedes the zip data of a jmod file.
const jmodHeader = 4

type entry struct {
	name   string
	fsys   fs.FS
	closer io.Closer
}

// Path is an ordered list of class locations. Classes are read on first
// use and cached, misses included. A Path is safe for concurrent use.
type Path struct {
	// Parent resolves classes the path does not have, typically the
	// core library. It may be nil.
	Parent entity.Resolver

	entries []entry

	mu      sync.Mutex
	classes map[string]*Class
}

// New opens the given directories, .jar and .jmod files.
func New(parent entity.Resolver, locations ...string) (*Path, error) {
	p := &Path{Parent: parent, classes: make(map[string]*Class)}
	for _, loc := range locations {
		e, err := open(loc)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("classpath entry %s: %w", loc, err)
		}
		p.entries = append(p.entries, e)
	}
	log.Debugf("opened %d classpath entries", len(p.entries))
	return p, nil
}

// FromFS returns a path over class files laid out by package in fsys.
func FromFS(parent entity.Resolver, fsys fs.FS) *Path {
	return &Path{
		Parent:  parent,
		entries: []entry{{name: "fs", fsys: fsys}},
		classes: make(map[string]*Class),
	}
}

func open(loc string) (entry, error) {
	info, err := os.Stat(loc)
	if err != nil {
		return entry{}, err
	}
	if info.IsDir() {
		return entry{name: loc, fsys: os.DirFS(loc)}, nil
	}

	f, err := os.Open(loc)
	if err != nil {
		return entry{}, err
	}
	switch strings.ToLower(filepath.Ext(loc)) {
	case ".jar", ".zip":
		zr, err := zip.NewReader(f, info.Size())
		if err != nil {
			f.Close()
			return entry{}, err
		}
		return entry{name: loc, fsys: zr, closer: f}, nil
	case ".jmod":
		size := info.Size() - jmodHeader
		if size < 0 {
			f.Close()
			return entry{}, fmt.Errorf("not a jmod file")
		}
		zr, err := zip.NewReader(io.NewSectionReader(f, jmodHeader, size), size)
		if err != nil {
			f.Close()
			return entry{}, err
		}
		classes, err := fs.Sub(zr, "classes")
		if err != nil {
			f.Close()
			return entry{}, err
		}
		return entry{name: loc, fsys: classes, closer: f}, nil
	}
	f.Close()
	return entry{}, fmt.Errorf("unsupported classpath entry type %q", filepath.Ext(loc))
}

// JDKLocations lists the class locations of a JDK home: its jmods, or
// the rt.jar of a pre-module JDK.
func JDKLocations(home string) ([]string, error) {
	jmods, err := filepath.Glob(filepath.Join(home, "jmods", "*.jmod"))
	if err != nil {
		return nil, err
	}
	if len(jmods) > 0 {
		slices.Sort(jmods)
		return jmods, nil
	}
	rt := filepath.Join(home, "jre", "lib", "rt.jar")
	if _, err := os.Stat(rt); err != nil {
		return nil, fmt.Errorf("no class library in JDK home %s", home)
	}
	return []string{rt}, nil
}

// Close releases the archives of the path.
func (p *Path) Close() error {
	var errs []error
	for _, e := range p.entries {
		if e.closer != nil {
			errs = append(errs, e.closer.Close())
		}
	}
	return errors.Join(errs...)
}

// Len is the number of entries of the path.
func (p *Path) Len() int {
	return len(p.entries)
}

// Find returns the class with the given binary name, such as
// "java.util.Map$Entry".
func (p *Path) Find(binary string) (*Class, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.classes[binary]; ok {
		if c == nil {
			return nil, ErrNotFound
		}
		return c, nil
	}

	file := classfile.SourceToInternalName(binary) + ".class"
	for _, e := range p.entries {
		cf, err := read(e.fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s in %s: %w", file, e.name, err)
		}
		if got := classfile.InternalToSourceName(cf.ClassName()); got != binary {
			log.Warningf("%s in %s declares %s", file, e.name, got)
			continue
		}
		c := newClass(p, cf)
		p.classes[binary] = c
		return c, nil
	}
	p.classes[binary] = nil
	return nil, ErrNotFound
}

func read(fsys fs.FS, name string) (*classfile.ClassFile, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return classfile.Parse(f)
}

// LoadClass finds a class on the path, then through Parent.
func (p *Path) LoadClass(name string) types.Reflective {
	c, err := p.Find(name)
	if err == nil {
		return c
	}
	if !errors.Is(err, ErrNotFound) {
		log.Warningf("%s", err)
	}
	if p.Parent != nil {
		if t := p.Parent.ResolveQualifiedClass(name); t != nil {
			if c := t.Class(); c != nil {
				return c.Ref
			}
		}
	}
	return nil
}

func (p *Path) ResolveQualifiedClass(name string) *entity.TypeEntity {
	if c, err := p.Find(name); err == nil {
		return &entity.TypeEntity{Type: &types.Class{Ref: c}}
	}
	if p.Parent != nil {
		return p.Parent.ResolveQualifiedClass(name)
	}
	return nil
}

func (p *Path) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := p.ResolveQualifiedClass(name); t != nil {
		return t
	}
	return &entity.Package{Name: name, Resolver: p}
}

func (p *Path) ValueEntity(name string, access types.Reflective) entity.Entity {
	return p.ResolvePackageOrClass(name, access)
}
