package cminor

// newTestParser builds a Parser over src with a fresh FileDecl/Log,
// the same wiring processTranslationUnit uses, for tests that only
// need one file and no #include closure.
func newTestParser(src string) (*Parser, *FileDecl, *Log, error) {
	log := NewLog()
	cfg := NewConfig()
	fd := newFileDecl("test.c")
	pp := NewPreprocessor("test.c", ".", []byte(src), cfg, log)
	lx := NewLexer(pp)
	p, err := NewParser(lx, fd, log, "test.c")
	return p, fd, log, err
}

// compileSource runs the full pipeline over a single, dependency-free
// translation unit and returns its diagnostics.
func compileSource(src string) ([]Diagnostic, error) {
	ctx, err := compileSourceCtx(src)
	if err != nil {
		return nil, err
	}
	return ctx.Log.Entries(), nil
}

// compileSourceCtx is compileSource's counterpart for tests that need
// to inspect the resulting AST, not just its diagnostics.
func compileSourceCtx(src string) (*CompilerContext, error) {
	cfg := NewConfig()
	cfg.AddEmbeddedFile("test.c", []byte(src))
	return NewDriver(cfg).Compile("test.c")
}
