package ffi

import "github.com/wyrmlang/wyrmcore/rterr"

// Prim is a primitive C type a schema entry may name directly (a WORD!
// naming a primitive type). Names mirror libffi's own ffi_type_*
// table, with stub definitions used when libffi is absent.
type Prim uint8

const (
	PrimVoid Prim = iota
	PrimUint8
	PrimSint8
	PrimUint16
	PrimSint16
	PrimUint32
	PrimSint32
	PrimUint64
	PrimSint64
	PrimFloat
	PrimDouble
	PrimPointer
	PrimRebval // a raw pointer to the cell itself, not its decoded payload
	PrimStruct // payload described by a Struct sub-schema, not a primitive width
)

var primNames = map[string]Prim{
	"void":    PrimVoid,
	"uint8":   PrimUint8,
	"int8":    PrimSint8,
	"uint16":  PrimUint16,
	"int16":   PrimSint16,
	"uint32":  PrimUint32,
	"int32":   PrimSint32,
	"uint64":  PrimUint64,
	"int64":   PrimSint64,
	"float":   PrimFloat,
	"double":  PrimDouble,
	"pointer": PrimPointer,
	"rebval":  PrimRebval,
	"struct":  PrimStruct,
}

// ParsePrim maps a routine spec's type-name WORD! to a Prim.
func ParsePrim(word string) (Prim, bool) {
	p, ok := primNames[word]
	return p, ok
}

// Size reports the primitive's footprint in bytes on the host
// platform, used to accumulate `store`'s size before any argument is
// converted.
func (p Prim) Size() int {
	switch p {
	case PrimUint8, PrimSint8:
		return 1
	case PrimUint16, PrimSint16:
		return 2
	case PrimUint32, PrimSint32, PrimFloat:
		return 4
	case PrimUint64, PrimSint64, PrimDouble, PrimPointer, PrimRebval:
		return 8
	default:
		return 0
	}
}

// StructField is one named, typed slot of a struct sub-schema: a
// per-arg schema entry may be a BLOCK! describing a struct layout
// rather than a plain primitive WORD!.
type StructField struct {
	Name string
	Type Schema
}

// Struct describes a C struct argument or return type by its field
// layout, laid out with natural alignment the way libffi's
// ffi_type.elements array does.
type Struct struct {
	Fields []StructField
}

// Size returns the struct's total footprint, each field padded to its
// own natural alignment and the whole padded to the widest field's
// alignment — the ordinary C struct layout rule.
func (s *Struct) Size() int {
	off := 0
	align := 1
	for _, f := range s.Fields {
		w := f.Type.size()
		if w > align {
			align = w
		}
		off = alignUp(off, w) + w
	}
	return alignUp(off, align)
}

func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}

// Schema is one argument or return-value type descriptor: either a
// bare Prim, or PrimStruct paired with a Struct layout.
type Schema struct {
	Prim   Prim
	Struct *Struct
}

func (s Schema) size() int {
	if s.Prim == PrimStruct {
		if s.Struct == nil {
			return 0
		}
		return s.Struct.Size()
	}
	return s.Prim.Size()
}

// Validate reports a CodeBadLibrary error if a struct schema is
// malformed (no fields, or a nested void field) — checked once at
// Compile time so a bad spec never reaches the forward-call path.
func (s Schema) Validate() *rterr.Error {
	if s.Prim == PrimStruct {
		if s.Struct == nil || len(s.Struct.Fields) == 0 {
			return rterr.New(rterr.CodeBadLibrary, "struct schema has no fields")
		}
		for _, f := range s.Struct.Fields {
			if f.Type.Prim == PrimVoid {
				return rterr.New(rterr.CodeBadLibrary, "struct schema has a void field")
			}
			if err := f.Type.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
