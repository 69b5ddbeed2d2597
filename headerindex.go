package cminor

// HeaderIndex is spec §3's "per-TU header index": the set of
// FileDecls visible to one translation unit (the .c file plus the
// transitive closure of its #includes). It is ephemeral — built by
// the driver for one TU and discarded when that TU is done — and
// lookups search it, never the whole HeaderStore, per spec §4.3
// "Visibility". Grounded on
// _examples/original_source/header_index.h/.c.
type HeaderIndex struct {
	files []*FileDecl
	seen  map[*FileDecl]bool
}

func NewHeaderIndex() *HeaderIndex {
	return &HeaderIndex{seen: make(map[*FileDecl]bool)}
}

// Add appends fd to the index unless it is already present — spec
// §3's invariant "the same FileDecl pointer never appears twice in a
// header index".
func (hi *HeaderIndex) Add(fd *FileDecl) {
	if hi.seen[fd] {
		return
	}
	hi.seen[fd] = true
	hi.files = append(hi.files, fd)
}

func (hi *HeaderIndex) Contains(fd *FileDecl) bool { return hi.seen[fd] }

func (hi *HeaderIndex) Files() []*FileDecl { return hi.files }

// FindStruct looks up a struct/union by its source-level tag first,
// then its fully qualified name, across every visible file, per spec
// §4.3's "match on search_name first, then on the globally qualified
// name".
func (hi *HeaderIndex) FindStruct(name string) *StructDefinition {
	for _, fd := range hi.files {
		for _, s := range fd.Structs {
			if s.Identity.SearchName == name {
				return s
			}
		}
	}
	for _, fd := range hi.files {
		for _, s := range fd.Structs {
			if s.Identity.Name == name {
				return s
			}
		}
	}
	return nil
}

func (hi *HeaderIndex) FindEnum(name string) *EnumDefinition {
	for _, fd := range hi.files {
		for _, e := range fd.Enums {
			if e.Identity.SearchName == name {
				return e
			}
		}
	}
	for _, fd := range hi.files {
		for _, e := range fd.Enums {
			if e.Identity.Name == name {
				return e
			}
		}
	}
	return nil
}

func (hi *HeaderIndex) FindTypedef(name string) *TypedefDefinition {
	for _, fd := range hi.files {
		for _, t := range fd.Typedefs {
			if t.Name == name {
				return t
			}
		}
	}
	return nil
}

func (hi *HeaderIndex) FindFunction(name string) *FunctionDecl {
	for _, fd := range hi.files {
		for _, f := range fd.Functions {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

// FindDeclaration looks up a file-scope (extern/global) variable
// declaration by name.
func (hi *HeaderIndex) FindDeclaration(name string) *VarDecl {
	for _, fd := range hi.files {
		for _, v := range fd.Externs {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

// FindEnumMember looks up a bare enum-constant name across every
// visible enum definition, returning the owning enum and the member
// itself.
func (hi *HeaderIndex) FindEnumMember(name string) (*EnumDefinition, *EnumMember) {
	for _, fd := range hi.files {
		for _, e := range fd.Enums {
			for _, m := range e.Members {
				if m.Name == name {
					return e, m
				}
			}
		}
	}
	return nil, nil
}

// ResolveNamed looks up any struct/union/enum/typedef visible to this
// TU by source name, used by the type resolver when turning a
// ParsedType's Name into a TypeSpecifier.
func (hi *HeaderIndex) ResolveNamed(name string) (kind BasicType, found bool) {
	if s := hi.FindStruct(name); s != nil {
		if s.IsUnion {
			return TUnion, true
		}
		return TStruct, true
	}
	if hi.FindEnum(name) != nil {
		return TEnum, true
	}
	if hi.FindTypedef(name) != nil {
		return TTypedefName, true
	}
	return 0, false
}
