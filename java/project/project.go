// Package project keeps the parsed source files of a Java project and
// resolves class names across them, the configured class path and the
// core library. Readers see consistent snapshots; every change
// publishes a new one.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/livejava/java/classpath"
	"github.com/dhamidi/livejava/java/entity"
	"github.com/dhamidi/livejava/java/info"
	"github.com/dhamidi/livejava/java/nodes"
	"github.com/dhamidi/livejava/java/parser"
	"github.com/dhamidi/livejava/java/stdlib"
	"github.com/dhamidi/livejava/java/types"
)

var log = commonlog.GetLogger("livejava.project")

// File is a parsed source file. Files are never changed once published.
type File struct {
	Path    string
	Content []byte
	Unit    *nodes.Unit
	// Info describes the file's primary type; it is nil when the file
	// declares none.
	Info *info.ClassInfo
}

type snapshot struct {
	set   *nodes.Set
	files map[string]*File
}

// Project is the root resolver of a set of source files. Lookups go to
// the source files first, then the class path, then the core library.
// It is safe for concurrent use; changes are serialized.
type Project struct {
	cfg    *Config
	match  *Matcher
	lib    entity.Resolver
	closer io.Closer

	write sync.Mutex
	mu    sync.RWMutex
	snap  *snapshot
}

// New returns an empty project for cfg. Call ScanAll to read its
// sources.
func New(cfg *Config) (*Project, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	match, err := cfg.Matcher()
	if err != nil {
		return nil, err
	}
	core, err := stdlib.New()
	if err != nil {
		return nil, err
	}

	p := &Project{cfg: cfg, match: match, lib: core}

	locations := slices.Clone(cfg.Classpath)
	if cfg.JDK != "" {
		jdk, err := classpath.JDKLocations(cfg.JDK)
		if err != nil {
			return nil, err
		}
		locations = append(locations, jdk...)
	}
	if len(locations) > 0 {
		cp, err := classpath.New(core, locations...)
		if err != nil {
			return nil, err
		}
		p.lib, p.closer = cp, cp
		log.Infof("class path has %d entries", cp.Len())
	}

	p.snap = &snapshot{set: nodes.NewSet(p.lib), files: make(map[string]*File)}
	return p, nil
}

func (p *Project) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func (p *Project) Config() *Config {
	return p.cfg
}

func (p *Project) Matcher() *Matcher {
	return p.match
}

// Library resolves the classes that do not come from source files.
func (p *Project) Library() entity.Resolver {
	return p.lib
}

func (p *Project) current() *snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Project) publish(s *snapshot) {
	p.mu.Lock()
	p.snap = s
	p.mu.Unlock()
	CompilationUnits.Set(float64(s.set.Len()))
}

// unitScope is the parent resolver of one unit. While the unit is
// resolved it answers from the set it is about to be published in, and
// from the project's current set afterwards.
type unitScope struct {
	p      *Project
	staged atomic.Pointer[nodes.Set]
}

func (s *unitScope) set() *nodes.Set {
	if set := s.staged.Load(); set != nil {
		return set
	}
	return s.p.current().set
}

func (s *unitScope) ResolveQualifiedClass(name string) *entity.TypeEntity {
	return s.p.lookup(s.set(), name)
}

func (s *unitScope) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := s.ResolveQualifiedClass(name); t != nil {
		return t
	}
	return &entity.Package{Name: name, Resolver: s}
}

func (s *unitScope) ValueEntity(name string, access types.Reflective) entity.Entity {
	return s.ResolvePackageOrClass(name, access)
}

func (p *Project) lookup(set *nodes.Set, name string) *entity.TypeEntity {
	if d := set.Lookup(name); d != nil {
		ResolveLookupsTotal.WithLabelValues("source", "hit").Inc()
		return &entity.TypeEntity{Type: &types.Class{Ref: d}}
	}
	if t := p.lib.ResolveQualifiedClass(name); t != nil {
		ResolveLookupsTotal.WithLabelValues("library", "hit").Inc()
		return t
	}
	ResolveLookupsTotal.WithLabelValues("library", "miss").Inc()
	return nil
}

func (p *Project) ResolveQualifiedClass(name string) *entity.TypeEntity {
	return p.lookup(p.current().set, name)
}

func (p *Project) ResolvePackageOrClass(name string, access types.Reflective) entity.Entity {
	if t := p.ResolveQualifiedClass(name); t != nil {
		return t
	}
	return &entity.Package{Name: name, Resolver: p}
}

func (p *Project) ValueEntity(name string, access types.Reflective) entity.Entity {
	return p.ResolvePackageOrClass(name, access)
}

// PackageOf returns the package a file belongs to by its location under
// a source path. Files outside every source path are in the default
// package.
func (p *Project) PackageOf(path string) string {
	for _, root := range p.cfg.SourcePaths {
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if rel == "." {
			return ""
		}
		return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
	}
	return ""
}

// pending is a parsed file whose names are not resolved yet.
type pending struct {
	file  *File
	x     *info.Extractor
	scope *unitScope
	start time.Time
}

func (p *Project) parse(path string, content []byte) (*pending, error) {
	start := time.Now()
	scope := &unitScope{p: p}
	x, unit, err := info.Walk(bytes.NewReader(content), scope, p.PackageOf(path), parser.WithFile(path))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if unit.HadError() {
		ParseErrorsTotal.Inc()
		log.Debugf("%s: %d syntax errors", path, len(unit.Errors))
	}
	return &pending{
		file:  &File{Path: path, Content: content, Unit: unit},
		x:     x,
		scope: scope,
		start: start,
	}, nil
}

// resolve resolves the unit's names. Every unit of set must be staged
// first, as resolving one unit may resolve parts of its siblings.
func (pf *pending) resolve() {
	pf.file.Unit.Resolve()
	if pf.x.Info() != nil {
		pf.x.ResolveComments()
		pf.file.Info = pf.x.Info()
	}
	ParseDuration.Observe(time.Since(pf.start).Seconds())
}

// UpdateFile parses content as the new text of the file at path and
// publishes it once its names are resolved.
func (p *Project) UpdateFile(path string, content []byte) error {
	p.write.Lock()
	defer p.write.Unlock()

	pf, err := p.parse(path, content)
	if err != nil {
		return err
	}

	cur := p.current()
	set := cur.set.Clone()
	if old := cur.files[path]; old != nil {
		set.Remove(old.Unit)
	}
	set.Add(pf.file.Unit)
	pf.scope.staged.Store(set)
	pf.resolve()

	files := maps.Clone(cur.files)
	files[path] = pf.file
	p.publish(&snapshot{set: set, files: files})
	pf.scope.staged.Store(nil)
	return nil
}

// ScanFile reads the file at path and updates it.
func (p *Project) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.UpdateFile(path, content)
}

// AddCompilationUnit adds a unit parsed elsewhere, with p as its
// parent resolver, under path.
func (p *Project) AddCompilationUnit(path string, unit *nodes.Unit) {
	p.write.Lock()
	defer p.write.Unlock()

	cur := p.current()
	set := cur.set.Clone()
	if old := cur.files[path]; old != nil {
		set.Remove(old.Unit)
	}
	set.Add(unit)
	unit.Resolve()

	files := maps.Clone(cur.files)
	files[path] = &File{Path: path, Unit: unit}
	p.publish(&snapshot{set: set, files: files})
}

// RemoveFile drops the file at path.
func (p *Project) RemoveFile(path string) {
	p.write.Lock()
	defer p.write.Unlock()

	cur := p.current()
	old := cur.files[path]
	if old == nil {
		return
	}
	set := cur.set.Clone()
	set.Remove(old.Unit)
	files := maps.Clone(cur.files)
	delete(files, path)
	p.publish(&snapshot{set: set, files: files})
}

// ScanAll reads every source file under the source paths and replaces
// the project's files with them. All files are parsed before any is
// resolved, so references between them resolve regardless of order.
// Files that cannot be read are skipped and reported in the error.
func (p *Project) ScanAll() error {
	p.write.Lock()
	defer p.write.Unlock()

	var errs []error
	var parsed []*pending
	set := nodes.NewSet(p.lib)
	for _, root := range p.cfg.SourcePaths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && p.match.ExcludeDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if p.match.ExcludeFile(path) {
				return nil
			}
			content, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			pf, err := p.parse(path, content)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			set.Add(pf.file.Unit)
			parsed = append(parsed, pf)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	for _, pf := range parsed {
		pf.scope.staged.Store(set)
	}
	files := make(map[string]*File, len(parsed))
	for _, pf := range parsed {
		pf.resolve()
		files[pf.file.Path] = pf.file
	}
	p.publish(&snapshot{set: set, files: files})
	for _, pf := range parsed {
		pf.scope.staged.Store(nil)
	}
	log.Infof("scanned %d files in %d packages", len(files), len(set.Packages()))
	return errors.Join(errs...)
}

// Files lists the paths of the project's files, sorted.
func (p *Project) Files() []string {
	return slices.Sorted(maps.Keys(p.current().files))
}

// File returns the parsed file at path, or nil.
func (p *Project) File(path string) *File {
	return p.current().files[path]
}

// Info returns the class information of the file at path, or nil.
func (p *Project) Info(path string) *info.ClassInfo {
	if f := p.File(path); f != nil {
		return f.Info
	}
	return nil
}

// Units lists the compilation units of the project in path order.
func (p *Project) Units() []*nodes.Unit {
	s := p.current()
	var units []*nodes.Unit
	for _, path := range slices.Sorted(maps.Keys(s.files)) {
		units = append(units, s.files[path].Unit)
	}
	return units
}

// Lookup returns the source declaration of a class, or nil.
func (p *Project) Lookup(binary string) *nodes.TypeDecl {
	return p.current().set.Lookup(binary)
}

// Dependencies maps the qualified name of each file's primary type to
// the qualified names of the classes of its package it uses.
func (p *Project) Dependencies() map[string][]string {
	deps := make(map[string][]string)
	for _, f := range p.current().files {
		if f.Info == nil {
			continue
		}
		name := entity.Qualify(f.Info.Package, f.Info.Name)
		used := make([]string, 0, len(f.Info.Used))
		for _, u := range f.Info.Used {
			used = append(used, entity.Qualify(f.Info.Package, u))
		}
		deps[name] = used
	}
	return deps
}

// DOT renders the dependencies as a Graphviz digraph.
func (p *Project) DOT() string {
	deps := p.Dependencies()
	var sb strings.Builder
	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n\n")
	names := slices.Sorted(maps.Keys(deps))
	for _, name := range names {
		fmt.Fprintf(&sb, "  %q;\n", name)
	}
	for _, name := range names {
		for _, to := range deps[name] {
			fmt.Fprintf(&sb, "  %q -> %q;\n", name, to)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
