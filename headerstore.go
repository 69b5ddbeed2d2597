package cminor

import (
	"path/filepath"
	"strings"
)

// FileDecl is spec §3's "authoritative container for one parsed
// file": path, derived class name, header flag, the function/struct/
// enum/typedef/extern-variable definitions it contributes, and its
// `#include` dependency list. Grounded on
// _examples/original_source/header_store.h's FileDecl, folding the C
// original's separate header_decl_visitor.c into direct Add* calls
// made by the parser as it finalises each declaration (spec §4.3
// "Adding declarations").
type FileDecl struct {
	Path      string
	ClassName string
	IsHeader  bool

	Functions []*FunctionDecl
	Structs   []*StructDefinition
	Enums     []*EnumDefinition
	Typedefs  []*TypedefDefinition
	Externs   []*VarDecl

	Dependencies []includeDependency

	anonCounters anonCounters
}

func newFileDecl(path string) *FileDecl {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	class := strings.TrimSuffix(base, ext)
	return &FileDecl{Path: path, ClassName: class, IsHeader: ext == ".h"}
}

// NextAnonStructIndex / NextAnonEnumIndex hand out the monotonic
// per-file counters spec §3 describes for anonymous struct/enum
// tags (TypeIdentity.SearchName == "").
func (fd *FileDecl) NextAnonStructIndex() int {
	fd.anonCounters.structs++
	return fd.anonCounters.structs
}

func (fd *FileDecl) NextAnonEnumIndex() int {
	fd.anonCounters.enums++
	return fd.anonCounters.enums
}

func (fd *FileDecl) AddFunction(f *FunctionDecl) {
	if f.Class == "" {
		f.Class = fd.ClassName
	}
	f.Source = fd.Path
	fd.Functions = append(fd.Functions, f)
}

func (fd *FileDecl) AddStruct(s *StructDefinition)     { fd.Structs = append(fd.Structs, s) }
func (fd *FileDecl) AddEnum(e *EnumDefinition)          { fd.Enums = append(fd.Enums, e) }
func (fd *FileDecl) AddTypedef(t *TypedefDefinition)    { fd.Typedefs = append(fd.Typedefs, t) }

func (fd *FileDecl) AddExtern(v *VarDecl) {
	if v.OwningClass == "" {
		v.OwningClass = fd.ClassName
	}
	v.SourcePath = fd.Path
	fd.Externs = append(fd.Externs, v)
}

func (fd *FileDecl) AddDependency(dep includeDependency) {
	fd.Dependencies = append(fd.Dependencies, dep)
}

// HeaderStore is spec §3's process-lifetime, append-only catalogue
// of every parsed FileDecl, keyed by canonical path — the invariant
// guard against repeated parsing of the same file (spec §4.3
// "Store"). Grounded on
// _examples/original_source/header_store.h/.c's linked list,
// generalized to a Go map for O(1) lookup (the C original's
// "lookups are linear" is an implementation artifact of a linked
// list, not a semantic requirement — §4.3 only requires get_or_create
// to find an *existing* entry, which a map does just as validly).
type HeaderStore struct {
	byPath map[string]*FileDecl
	order  []string
}

func NewHeaderStore() *HeaderStore {
	return &HeaderStore{byPath: make(map[string]*FileDecl)}
}

// GetOrCreate returns the existing FileDecl for path, or allocates a
// fresh one derived from the path (class name = basename minus
// extension; is_header = path ends in ".h"), per spec §4.3.
func (hs *HeaderStore) GetOrCreate(path string) *FileDecl {
	if fd, ok := hs.byPath[path]; ok {
		return fd
	}
	fd := newFileDecl(path)
	hs.byPath[path] = fd
	hs.order = append(hs.order, path)
	return fd
}

func (hs *HeaderStore) Lookup(path string) (*FileDecl, bool) {
	fd, ok := hs.byPath[path]
	return fd, ok
}

func (hs *HeaderStore) Contains(path string) bool {
	_, ok := hs.byPath[path]
	return ok
}
