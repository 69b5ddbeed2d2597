package cminor

import (
	"os"
	"path/filepath"
)

// CompilerContext is the facade the driver builds up across every
// translation unit it processes: the process-lifetime header store,
// the global declaration/statement accumulators codegen would
// consume, and the diagnostic log for the run as a whole. Grounded on
// the teacher's Database (query.go) as the thing that outlives any
// one file, narrowed from a dependency-tracked cache to the flat
// accumulators spec §4.4 step 7 describes ("concatenate the TU's
// statements and declarations into the context's global
// accumulators").
type CompilerContext struct {
	Config  *Config
	Store   *Store
	Headers *HeaderStore

	Functions []*FunctionDecl
	Structs   []*StructDefinition
	Enums     []*EnumDefinition
	Typedefs  []*TypedefDefinition
	Externs   []*VarDecl

	Log *Log
}

// TranslationUnit is the ephemeral per-file state the driver builds
// while processing one pending source: its own FileDecl, the header
// index covering its transitive #include closure, and the statement/
// declaration lists the parser produced. Discarded once its
// declarations are folded into the CompilerContext (spec §5 "Per-TU
// state... is owned by a single TU object and discarded when the TU
// completes").
type TranslationUnit struct {
	Path        string
	File        *FileDecl
	HeaderIndex *HeaderIndex
	TopLevel    []Decl
}

// Driver runs spec §4.4's translation-unit loop: a queue of pending
// source paths, a set of already-processed paths, and the header
// store every TU's index is built from. Grounded on the driver loop
// implicit in the teacher's import resolution (import_resolver.go)
// generalized from "one grammar file pulls in imports" to "a source
// queue pulls in both transitive headers and auto-paired sources".
// File content for the top-level source and every discovered header
// is read directly (embedded table, then disk); the preprocessor
// consults its own IncludeResolver separately when it first sees an
// `#include` directive, purely to resolve the target into a path —
// the driver re-reads that path itself since each header gets its
// own fresh preprocessing pass as its own TU (spec §4.4 step 4).
type Driver struct {
	cfg *Config
	ctx *CompilerContext

	pendingSources []string
	processed      map[string]bool
}

func NewDriver(cfg *Config) *Driver {
	headers := NewHeaderStore()
	return &Driver{
		cfg:       cfg,
		processed: make(map[string]bool),
		ctx: &CompilerContext{
			Config:  cfg,
			Store:   NewStore(cfg, headers),
			Headers: headers,
			Log:     NewLog(),
		},
	}
}

// Compile seeds the pending-source queue with path and runs the
// driver loop to completion, returning the populated context. It
// aborts (returning the context built so far plus the error) on the
// first fatal host error or parsing error, or on the first TU whose
// semantic analysis
// logged any error, per spec §4.4 step 6 "Abort on any logged error".
func (d *Driver) Compile(path string) (*CompilerContext, error) {
	d.enqueueSource(path)
	for len(d.pendingSources) > 0 {
		src := d.pendingSources[len(d.pendingSources)-1]
		d.pendingSources = d.pendingSources[:len(d.pendingSources)-1]

		if d.processed[src] {
			continue
		}
		d.processed[src] = true

		if err := d.processTranslationUnit(src); err != nil {
			return d.ctx, err
		}
		if d.ctx.Log.HasErrors() {
			return d.ctx, nil
		}
	}
	return d.ctx, nil
}

func (d *Driver) enqueueSource(path string) {
	if !d.processed[path] {
		d.pendingSources = append(d.pendingSources, path)
	}
}

// processTranslationUnit implements spec §4.4 steps 2-7 for one
// source path.
func (d *Driver) processTranslationUnit(path string) error {
	content, isEmbedded, err := d.readFile(path)
	if err != nil {
		return FatalHostError{Path: path, Err: err}
	}

	fd := d.ctx.Headers.GetOrCreate(path)
	idx := NewHeaderIndex()
	idx.Add(fd)

	tuLog := NewLog()
	topLevel, err := d.parseInto(path, content, isEmbedded, fd, idx, tuLog)
	if err != nil {
		return err
	}
	tu := &TranslationUnit{Path: path, File: fd, HeaderIndex: idx, TopLevel: topLevel}

	headerQueue := append([]*FileDecl(nil), idx.Files()...)
	visited := map[*FileDecl]bool{fd: true}
	for len(headerQueue) > 0 {
		cur := headerQueue[0]
		headerQueue = headerQueue[1:]
		for _, dep := range cur.Dependencies {
			depFD, exists := d.ctx.Headers.Lookup(dep.Path)
			if !exists {
				continue // non-header source dependency, already queued by parseInto
			}
			if !depFD.IsHeader {
				continue
			}
			if visited[depFD] {
				continue
			}
			visited[depFD] = true
			idx.Add(depFD)
			headerQueue = append(headerQueue, depFD)
		}
	}

	resolver := newTypeResolver(idx)
	for _, f := range idx.Files() {
		resolver.resolveTypedefs(f)
	}
	for _, f := range idx.Files() {
		resolver.resolveAggregatesAndFunctions(f)
	}

	sm := newSema(idx, resolver, tuLog)
	sm.run(tu)

	d.ctx.Functions = append(d.ctx.Functions, fd.Functions...)
	d.ctx.Structs = append(d.ctx.Structs, fd.Structs...)
	d.ctx.Enums = append(d.ctx.Enums, fd.Enums...)
	d.ctx.Typedefs = append(d.ctx.Typedefs, fd.Typedefs...)
	d.ctx.Externs = append(d.ctx.Externs, fd.Externs...)
	for _, e := range tuLog.Entries() {
		d.ctx.Log.Add(e)
	}

	return nil
}

// parseInto runs the preprocessor and parser over one file's content,
// then splits its discovered #include dependencies into the local
// header queue vs. the driver's global pending-source queue (spec
// §4.4 step 4), and auto-pairs a just-parsed header with its sibling
// source file (step "Auto-pairing").
func (d *Driver) parseInto(path string, content []byte, isEmbedded bool, fd *FileDecl, idx *HeaderIndex, log *Log) ([]Decl, error) {
	dir := filepath.Dir(path)
	pp := NewPreprocessor(path, dir, content, d.cfg, log)
	lx := NewLexer(pp)
	p, err := NewParser(lx, fd, log, path)
	if err != nil {
		return nil, err
	}
	decls, err := p.ParseTranslationUnit()
	if err != nil {
		return nil, err
	}

	for _, dep := range pp.Dependencies() {
		fd.AddDependency(dep)
		ext := filepath.Ext(dep.Path)
		if ext == ".h" {
			hfd, err := Get(d.ctx.Store, d.headerParseQuery(log), dep.Path)
			if err != nil {
				return nil, err
			}
			idx.Add(hfd)
			d.autoPairSource(dep.Path)
		} else {
			d.enqueueSource(dep.Path)
		}
	}
	return decls, nil
}

// headerParseQuery builds the memoized query that parses a header
// exactly once per process invocation (spec §4.3's "Store" guard
// against repeated parsing), backed by Store's generic Get/Query
// cache rather than the ad-hoc Contains/GetOrCreate check this
// replaced: the cache key is the header path, so whichever
// translation unit first reaches a given header runs Compute and
// every later dependant of that same header — from any TU — gets the
// memoized FileDecl back without re-parsing. log is only ever
// consulted inside Compute on that first, cache-miss call; every
// later Get for the same path returns the cached FileDecl without
// touching log at all, so it is safe for it to differ between the TU
// that happens to discover the header first and the TUs that reuse
// the memoized result.
func (d *Driver) headerParseQuery(log *Log) *Query[string, *FileDecl] {
	return &Query[string, *FileDecl]{
		Name: "parseHeader",
		Compute: func(store *Store, headerPath string) (*FileDecl, error) {
			depFD := store.Headers.GetOrCreate(headerPath)
			depContent, depEmbedded, err := d.readFile(headerPath)
			if err != nil {
				return nil, FatalHostError{Path: headerPath, Err: err}
			}
			headerIdx := NewHeaderIndex()
			headerIdx.Add(depFD)
			if _, err := d.parseInto(headerPath, depContent, depEmbedded, depFD, headerIdx, log); err != nil {
				return nil, err
			}
			return depFD, nil
		},
	}
}

// autoPairSource implements spec §4.4's auto-pairing rule: parsing
// foo.h enqueues foo.c iff it exists, either on disk or in the
// embedded-file table.
func (d *Driver) autoPairSource(headerPath string) {
	ext := filepath.Ext(headerPath)
	if ext != ".h" {
		return
	}
	siblingPath := headerPath[:len(headerPath)-len(ext)] + ".c"
	if d.processed[siblingPath] {
		return
	}
	if _, _, err := d.readFile(siblingPath); err == nil {
		d.enqueueSource(siblingPath)
	}
}

func (d *Driver) readFile(path string) ([]byte, bool, error) {
	base := filepath.Base(path)
	if content, ok := d.cfg.EmbeddedFiles[base]; ok {
		return content, true, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return content, false, nil
}
