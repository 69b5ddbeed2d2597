package cminor

// typeResolver turns the parser's syntactic ParsedType trees into
// resolved TypeSpecifiers using a TU's HeaderIndex, implementing spec
// §4.5's Pass A (typedef resolution) and Pass B (aggregate & function
// resolution). Grounded on _examples/original_source/cminor_type.c's
// type-resolution routines, adapted from the C original's in-place
// AST annotation to an explicit resolver object the driver invokes
// between parsing and the Pass C AST walk.
type typeResolver struct {
	idx *HeaderIndex
}

func newTypeResolver(idx *HeaderIndex) *typeResolver {
	return &typeResolver{idx: idx}
}

// resolveTypedefs implements spec §4.5 Pass A: for each typedef in
// fd, resolve its underlying ParsedType, then follow the typedef
// chain (if the underlying type is itself a typedef name) to compute
// Canonical, preserving IsUnsigned accumulated along the way.
func (r *typeResolver) resolveTypedefs(fd *FileDecl) {
	for _, td := range fd.Typedefs {
		td.ResolvedType = r.resolve(td.ParsedType)
		td.Canonical = td.ResolvedType.Canonical()
	}
}

// resolveAggregatesAndFunctions implements spec §4.5 Pass B: resolve
// every struct/union member's type, every function's return type, and
// every non-variadic parameter's type.
func (r *typeResolver) resolveAggregatesAndFunctions(fd *FileDecl) {
	for _, s := range fd.Structs {
		for _, m := range s.Members {
			m.ResolvedType = r.resolve(m.ParsedType)
		}
		if s.IsUnion {
			s.Kind = ClassifyUnionKind(s.Members)
		}
	}
	for _, f := range fd.Functions {
		f.ReturnType = r.resolve(f.ReturnParsedType)
		for _, p := range f.Params {
			p.ResolvedType = r.resolve(p.ParsedType)
		}
	}
	for _, v := range fd.Externs {
		v.ResolvedType = r.resolve(v.ParsedType)
	}
}

// resolve converts one ParsedType tree into a TypeSpecifier,
// recursing through pointer/array wrappers and looking up named types
// (struct/union/enum tags, typedef names) in the header index.
func (r *typeResolver) resolve(pt *ParsedType) *TypeSpecifier {
	if pt == nil {
		return nil
	}
	switch pt.Kind {
	case KindPointer:
		return WrapPointer(r.resolve(pt.Child), max(pt.PointerDepth, 1))
	case KindArray:
		return WrapArray(r.resolve(pt.Child), pt.ArraySize)
	case KindNamed:
		return r.resolveNamed(pt)
	default:
		t := NewBasicType(pt.Basic)
		t.IsUnsigned = pt.IsUnsigned
		t.IsConst = pt.IsConst
		return t
	}
}

// resolveNamed looks up a struct/union/enum tag or typedef name in
// the header index and builds the corresponding TypeSpecifier,
// aliasing its Members slice back to the authoritative
// StructDefinition (types.go's Copy doc comment on this intentional
// aliasing).
func (r *typeResolver) resolveNamed(pt *ParsedType) *TypeSpecifier {
	switch pt.Basic {
	case TStruct, TUnion:
		if s := r.idx.FindStruct(pt.Name); s != nil {
			return &TypeSpecifier{Kind: KindNamed, Basic: pt.Basic, Identity: s.Identity, Members: s.Members}
		}
		return &TypeSpecifier{Kind: KindNamed, Basic: pt.Basic, Identity: TypeIdentity{SearchName: pt.Name, Name: pt.Name}}
	case TEnum:
		if e := r.idx.FindEnum(pt.Name); e != nil {
			return &TypeSpecifier{Kind: KindNamed, Basic: TEnum, Identity: e.Identity}
		}
		return &TypeSpecifier{Kind: KindNamed, Basic: TEnum, Identity: TypeIdentity{SearchName: pt.Name, Name: pt.Name}}
	default: // TTypedefName
		if td := r.idx.FindTypedef(pt.Name); td != nil {
			t := &TypeSpecifier{Kind: KindNamed, Basic: TTypedefName, IsTypedef: true, Identity: TypeIdentity{SearchName: pt.Name, Name: pt.Name}}
			t.canonical = td.Canonical
			if t.canonical == nil {
				t.canonical = td.ResolvedType
			}
			t.IsUnsigned = td.ResolvedType != nil && td.ResolvedType.IsUnsigned
			return t
		}
		return &TypeSpecifier{Kind: KindNamed, Basic: TTypedefName, IsTypedef: true, Identity: TypeIdentity{SearchName: pt.Name, Name: pt.Name}}
	}
}
