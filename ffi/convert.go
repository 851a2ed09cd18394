package ffi

import (
	"encoding/binary"
	"math"

	"github.com/wyrmlang/wyrmcore/cell"
	"github.com/wyrmlang/wyrmcore/rterr"
)

// ArgToFFI converts one evaluated argument cell into its raw C-ABI
// byte representation written to dst).
// dst must be exactly schema's size.
func ArgToFFI(c *cell.Cell, schema Schema, dst []byte) *rterr.Error {
	switch schema.Prim {
	case PrimUint8, PrimSint8, PrimUint16, PrimSint16, PrimUint32, PrimSint32, PrimUint64, PrimSint64:
		return intToFFI(c, schema.Prim, dst)
	case PrimFloat:
		if c.Kind() != cell.KindDecimal && c.Kind() != cell.KindInteger {
			return rterr.New(rterr.CodeArgType, "ffi: expected decimal! for float argument")
		}
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(asFloat(c))))
		return nil
	case PrimDouble:
		if c.Kind() != cell.KindDecimal && c.Kind() != cell.KindInteger {
			return rterr.New(rterr.CodeArgType, "ffi: expected decimal! for double argument")
		}
		binary.LittleEndian.PutUint64(dst, math.Float64bits(asFloat(c)))
		return nil
	case PrimPointer:
		return pointerToFFI(c, dst)
	case PrimRebval:
		// "rebval -> pointer to the cell itself": the
		// pointer value is the cell's own address, handed to foreign
		// code as an opaque token it is expected to pass back
		// unmodified (e.g. as user-data for a later callback).
		binary.LittleEndian.PutUint64(dst, uint64(uintptr(cellAddr(c))))
		return nil
	case PrimStruct:
		return structToFFI(c, schema.Struct, dst)
	default:
		return rterr.New(rterr.CodeBadLibrary, "ffi: unsupported argument schema")
	}
}

// FFIToRebol is ArgToFFI's inverse, used both by a forward call's
// return-value conversion and a reverse callback's
// argument conversion.
func FFIToRebol(schema Schema, src []byte) (cell.Cell, *rterr.Error) {
	var out cell.Cell
	switch schema.Prim {
	case PrimVoid:
		out.Init()
		return out, nil
	case PrimUint8:
		out.SetInt64(int64(src[0]))
	case PrimSint8:
		out.SetInt64(int64(int8(src[0])))
	case PrimUint16:
		out.SetInt64(int64(binary.LittleEndian.Uint16(src)))
	case PrimSint16:
		out.SetInt64(int64(int16(binary.LittleEndian.Uint16(src))))
	case PrimUint32:
		out.SetInt64(int64(binary.LittleEndian.Uint32(src)))
	case PrimSint32:
		out.SetInt64(int64(int32(binary.LittleEndian.Uint32(src))))
	case PrimUint64:
		out.SetInt64(int64(binary.LittleEndian.Uint64(src)))
	case PrimSint64:
		out.SetInt64(int64(binary.LittleEndian.Uint64(src)))
	case PrimFloat:
		out.SetDecimal(float64(math.Float32frombits(binary.LittleEndian.Uint32(src))))
	case PrimDouble:
		out.SetDecimal(math.Float64frombits(binary.LittleEndian.Uint64(src)))
	case PrimPointer, PrimRebval:
		out.SetHandle(&cell.Handle{Data: uintptr(binary.LittleEndian.Uint64(src))})
	case PrimStruct:
		return cell.Cell{}, rterr.New(rterr.CodeBadLibrary, "ffi: struct return conversion not supported")
	default:
		return cell.Cell{}, rterr.New(rterr.CodeBadLibrary, "ffi: unsupported return schema")
	}
	return out, nil
}

// intToFFI range-checks an INTEGER! cell against the target width
// before truncating into dst.
func intToFFI(c *cell.Cell, p Prim, dst []byte) *rterr.Error {
	if c.Kind() != cell.KindInteger {
		return rterr.New(rterr.CodeArgType, "ffi: expected integer! argument")
	}
	v := c.Int64()
	lo, hi := intRange(p)
	if v < lo || v > hi {
		return rterr.New(rterr.CodeOutOfRange, "ffi: integer argument out of range for declared C type")
	}
	switch p {
	case PrimUint8, PrimSint8:
		dst[0] = byte(v)
	case PrimUint16, PrimSint16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case PrimUint32, PrimSint32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case PrimUint64, PrimSint64:
		binary.LittleEndian.PutUint64(dst, uint64(v))
	}
	return nil
}

func intRange(p Prim) (lo, hi int64) {
	switch p {
	case PrimUint8:
		return 0, math.MaxUint8
	case PrimSint8:
		return math.MinInt8, math.MaxInt8
	case PrimUint16:
		return 0, math.MaxUint16
	case PrimSint16:
		return math.MinInt16, math.MaxInt16
	case PrimUint32:
		return 0, math.MaxUint32
	case PrimSint32:
		return math.MinInt32, math.MaxInt32
	case PrimUint64:
		return 0, math.MaxInt64 // int64 cannot represent full uint64 range
	default: // PrimSint64
		return math.MinInt64, math.MaxInt64
	}
}

func asFloat(c *cell.Cell) float64 {
	if c.Kind() == cell.KindInteger {
		return float64(c.Int64())
	}
	return c.Decimal()
}

// pointerToFFI handles the string/binary/vector-to-raw-data-pointer
// conversion: a BINARY!, STRING!, FILE! or VECTOR! argument is passed
// as the address of its own backing storage, handing C code a direct
// pointer into the series payload rather than copying it.
func pointerToFFI(c *cell.Cell, dst []byte) *rterr.Error {
	switch c.Kind() {
	case cell.KindBinary, cell.KindString, cell.KindFile, cell.KindVector:
		s, ok := c.Ref().(interface{ Bytes() []byte })
		if !ok {
			return rterr.New(rterr.CodeArgType, "ffi: pointer argument has no backing bytes")
		}
		b := s.Bytes()
		var addr uint64
		if len(b) > 0 {
			addr = uint64(uintptr(ptrOf(&b[0])))
		}
		binary.LittleEndian.PutUint64(dst, addr)
		return nil
	case cell.KindHandle:
		h := c.Handle()
		if h == nil {
			return rterr.New(rterr.CodeArgType, "ffi: nil handle! for pointer argument")
		}
		if p, ok := h.Data.(uintptr); ok {
			binary.LittleEndian.PutUint64(dst, uint64(p))
			return nil
		}
		return rterr.New(rterr.CodeArgType, "ffi: handle! does not carry a raw pointer")
	case cell.KindNone:
		return nil // a NONE! argument marshals as a NULL pointer
	default:
		return rterr.New(rterr.CodeArgType, "ffi: cannot convert this value to a pointer argument")
	}
}

// structToFFI memcpy's a struct-schema argument's field values in
// order, re-running ArgToFFI per field at the field's aligned offset
//. The source
// cell must itself be a block of one value per field, in field order.
func structToFFI(c *cell.Cell, st *Struct, dst []byte) *rterr.Error {
	fields, ok := c.Ref().(interface{ Cells() []cell.Cell })
	if !ok {
		return rterr.New(rterr.CodeArgType, "ffi: struct argument expects a block! of field values")
	}
	vals := fields.Cells()
	if len(vals) != len(st.Fields) {
		return rterr.New(rterr.CodeBadMake, "ffi: struct argument field count mismatch")
	}
	off := 0
	for i, f := range st.Fields {
		w := f.Type.size()
		off = alignUp(off, w)
		if err := ArgToFFI(&vals[i], f.Type, dst[off:off+w]); err != nil {
			return err
		}
		off += w
	}
	return nil
}
