package cminor

// Compile runs the full front-end pipeline over path: preprocessing,
// parsing, type resolution, and semantic analysis for it and every
// translation unit its `#include`s and auto-paired sources pull in
// (spec §4.4). It returns the diagnostics of every translation unit
// that reached semantic analysis, alongside the context accumulated so
// far. err is non-nil for a FatalHostError (a file the host couldn't
// read) or for a ParsingError that stopped preprocessing or parsing;
// diagnostics logged by a translation unit that stopped that way are
// not included.
func Compile(path string, cfg *Config) (*CompilerContext, []Diagnostic, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	ctx, err := NewDriver(cfg).Compile(path)
	return ctx, ctx.Log.Entries(), err
}
