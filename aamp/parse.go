package aamp

import (
	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

const (
	headerSize       = 0x30
	resParamListSize = 0xC
	resParamObjSize  = 8
	resParamSize     = 8

	flagLittleEndian = 1 << 0
	flagUtf8         = 1 << 1
)

// FromBinary decodes a ParameterIO from its binary representation
//. AAMP archives are always little-endian and UTF-8; any other
// flag combination, a version other than 2, or a bad magic fails with
// InvalidData.
func FromBinary(data []byte) (*ParameterIO, error) {
	if len(data) < headerSize {
		return nil, errs.InvalidData("buffer too small for AAMP header (%d bytes)", len(data))
	}
	if string(data[0:4]) != "AAMP" {
		return nil, errs.InvalidData("bad magic %q", data[0:4])
	}

	r := bin.NewReader(data, bin.LittleEndian)
	r.Seek(4)
	version, _ := r.ReadU32()
	if version != 2 {
		return nil, errs.InvalidData("only version 2 parameter archives are supported, got %d", version)
	}
	r.Seek(8)
	flags, _ := r.ReadU32()
	if flags&flagLittleEndian == 0 {
		return nil, errs.InvalidData("only little endian parameter archives are supported")
	}
	if flags&flagUtf8 == 0 {
		return nil, errs.InvalidData("only UTF-8 parameter archives are supported")
	}

	r.Seek(0x10)
	pioVersion, _ := r.ReadU32()
	r.Seek(0x14)
	offsetToPio, ok := r.ReadU32()
	if !ok {
		return nil, errs.InvalidData("truncated header")
	}

	p := &parser{r: r}
	rootName, root, err := p.parseList(headerSize + offsetToPio)
	if err != nil {
		return nil, err
	}
	if rootName != ParamRootKey.Hash {
		return nil, errs.InvalidData("no param_root at offset_to_pio %#x", offsetToPio)
	}

	typeName, ok := r.ReadString(headerSize, -1)
	if !ok {
		return nil, errs.InvalidData("type string out of bounds")
	}

	return &ParameterIO{ParameterList: root, Version: pioVersion, Type: typeName}, nil
}

type parser struct {
	r *bin.Reader
}

func compactOffset16(raw uint16) uint32 { return uint32(raw) * 4 }
func compactOffset24(raw uint32) uint32 { return raw * 4 }

func (p *parser) parseList(offset uint32) (uint32, *ParameterList, error) {
	p.r.Seek(int(offset))
	nameHash, ok := p.r.ReadU32()
	if !ok {
		return 0, nil, errs.InvalidData("parameter list header out of bounds at %#x", offset)
	}
	listsRelRaw, ok := p.r.ReadU16()
	if !ok {
		return 0, nil, errs.InvalidData("parameter list header truncated at %#x", offset)
	}
	numLists, ok := p.r.ReadU16()
	if !ok {
		return 0, nil, errs.InvalidData("parameter list header truncated at %#x", offset)
	}
	objectsRelRaw, ok := p.r.ReadU16()
	if !ok {
		return 0, nil, errs.InvalidData("parameter list header truncated at %#x", offset)
	}
	numObjects, ok := p.r.ReadU16()
	if !ok {
		return 0, nil, errs.InvalidData("parameter list header truncated at %#x", offset)
	}

	offsetToLists := offset + compactOffset16(listsRelRaw)
	offsetToObjects := offset + compactOffset16(objectsRelRaw)

	list := NewParameterList()
	for i := uint32(0); i < uint32(numLists); i++ {
		childName, child, err := p.parseList(offsetToLists + resParamListSize*i)
		if err != nil {
			return 0, nil, err
		}
		list.SetList(NameFromHash(childName), child)
	}
	for i := uint32(0); i < uint32(numObjects); i++ {
		objName, obj, err := p.parseObject(offsetToObjects + resParamObjSize*i)
		if err != nil {
			return 0, nil, err
		}
		list.SetObject(NameFromHash(objName), obj)
	}
	return nameHash, list, nil
}

func (p *parser) parseObject(offset uint32) (uint32, *ParameterObject, error) {
	p.r.Seek(int(offset))
	nameHash, ok := p.r.ReadU32()
	if !ok {
		return 0, nil, errs.InvalidData("parameter object header out of bounds at %#x", offset)
	}
	paramsRelRaw, ok := p.r.ReadU16()
	if !ok {
		return 0, nil, errs.InvalidData("parameter object header truncated at %#x", offset)
	}
	numParams, ok := p.r.ReadU16()
	if !ok {
		return 0, nil, errs.InvalidData("parameter object header truncated at %#x", offset)
	}

	offsetToParams := offset + compactOffset16(paramsRelRaw)
	obj := NewParameterObject()
	for i := uint32(0); i < uint32(numParams); i++ {
		paramHash, param, err := p.parseParameter(offsetToParams + resParamSize*i)
		if err != nil {
			return 0, nil, err
		}
		obj.Set(NameFromHash(paramHash), param)
	}
	return nameHash, obj, nil
}

func (p *parser) parseParameter(offset uint32) (uint32, Parameter, error) {
	p.r.Seek(int(offset))
	nameHash, ok := p.r.ReadU32()
	if !ok {
		return 0, Parameter{}, errs.InvalidData("parameter header out of bounds at %#x", offset)
	}
	dataRelRaw, ok := p.r.ReadU24()
	if !ok {
		return 0, Parameter{}, errs.InvalidData("parameter header truncated at %#x", offset)
	}
	typeByte, ok := p.r.ReadU8()
	if !ok {
		return 0, Parameter{}, errs.InvalidData("parameter header truncated at %#x", offset)
	}
	dataOffset := offset + compactOffset24(dataRelRaw)

	param, err := p.parseParameterData(ParamType(typeByte), dataOffset)
	if err != nil {
		return 0, Parameter{}, err
	}
	return nameHash, param, nil
}

func (p *parser) readFloats(offset uint32, n int) ([]float32, bool) {
	p.r.Seek(int(offset))
	out := make([]float32, n)
	for i := range out {
		v, ok := p.r.ReadF32()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (p *parser) parseCurve(offset uint32) (Curve, bool) {
	p.r.Seek(int(offset))
	a, ok := p.r.ReadU32()
	if !ok {
		return Curve{}, false
	}
	b, ok := p.r.ReadU32()
	if !ok {
		return Curve{}, false
	}
	var c Curve
	c.A, c.B = a, b
	for i := range c.Floats {
		v, ok := p.r.ReadF32()
		if !ok {
			return Curve{}, false
		}
		c.Floats[i] = v
	}
	return c, true
}

const curveSize = 0x80

func (p *parser) parseCurves(offset uint32, n int) ([]Curve, bool) {
	out := make([]Curve, n)
	for i := 0; i < n; i++ {
		c, ok := p.parseCurve(offset + uint32(i)*curveSize)
		if !ok {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

func (p *parser) parseBufferLen(dataOffset uint32) (uint32, bool) {
	p.r.Seek(int(dataOffset) - 4)
	return p.r.ReadU32()
}

func (p *parser) parseParameterData(typ ParamType, dataOffset uint32) (Parameter, error) {
	switch typ {
	case Bool:
		p.r.Seek(int(dataOffset))
		v, ok := p.r.ReadU32()
		if !ok {
			return Parameter{}, errs.InvalidData("bool parameter out of bounds at %#x", dataOffset)
		}
		return BoolParam(v != 0), nil
	case F32:
		p.r.Seek(int(dataOffset))
		v, ok := p.r.ReadF32()
		if !ok {
			return Parameter{}, errs.InvalidData("f32 parameter out of bounds at %#x", dataOffset)
		}
		return F32Param(v), nil
	case Int:
		p.r.Seek(int(dataOffset))
		v, ok := p.r.ReadI32()
		if !ok {
			return Parameter{}, errs.InvalidData("int parameter out of bounds at %#x", dataOffset)
		}
		return IntParam(v), nil
	case Vec2Type:
		f, ok := p.readFloats(dataOffset, 2)
		if !ok {
			return Parameter{}, errs.InvalidData("vec2 parameter out of bounds at %#x", dataOffset)
		}
		return Vec2Param(Vec2{X: f[0], Y: f[1]}), nil
	case Vec3Type:
		f, ok := p.readFloats(dataOffset, 3)
		if !ok {
			return Parameter{}, errs.InvalidData("vec3 parameter out of bounds at %#x", dataOffset)
		}
		return Vec3Param(Vec3{X: f[0], Y: f[1], Z: f[2]}), nil
	case Vec4Type:
		f, ok := p.readFloats(dataOffset, 4)
		if !ok {
			return Parameter{}, errs.InvalidData("vec4 parameter out of bounds at %#x", dataOffset)
		}
		return Vec4Param(Vec4{X: f[0], Y: f[1], Z: f[2], W: f[3]}), nil
	case ColorType:
		f, ok := p.readFloats(dataOffset, 4)
		if !ok {
			return Parameter{}, errs.InvalidData("color parameter out of bounds at %#x", dataOffset)
		}
		return ColorParam(Color4{R: f[0], G: f[1], B: f[2], A: f[3]}), nil
	case QuatType:
		f, ok := p.readFloats(dataOffset, 4)
		if !ok {
			return Parameter{}, errs.InvalidData("quat parameter out of bounds at %#x", dataOffset)
		}
		return QuatParam(Quat{A: f[0], B: f[1], C: f[2], D: f[3]}), nil
	case U32:
		p.r.Seek(int(dataOffset))
		v, ok := p.r.ReadU32()
		if !ok {
			return Parameter{}, errs.InvalidData("u32 parameter out of bounds at %#x", dataOffset)
		}
		return U32Param(v), nil
	case String32:
		s, ok := p.r.ReadString(int(dataOffset), 32)
		if !ok {
			return Parameter{}, errs.InvalidData("string32 parameter out of bounds at %#x", dataOffset)
		}
		return String32Param(s), nil
	case String64:
		s, ok := p.r.ReadString(int(dataOffset), 64)
		if !ok {
			return Parameter{}, errs.InvalidData("string64 parameter out of bounds at %#x", dataOffset)
		}
		return String64Param(s), nil
	case String256:
		s, ok := p.r.ReadString(int(dataOffset), 256)
		if !ok {
			return Parameter{}, errs.InvalidData("string256 parameter out of bounds at %#x", dataOffset)
		}
		return String256Param(s), nil
	case StringRef:
		s, ok := p.r.ReadString(int(dataOffset), -1)
		if !ok {
			return Parameter{}, errs.InvalidData("stringref parameter out of bounds at %#x", dataOffset)
		}
		return StringRefParam(s), nil
	case Curve1:
		c, ok := p.parseCurves(dataOffset, 1)
		if !ok {
			return Parameter{}, errs.InvalidData("curve1 parameter out of bounds at %#x", dataOffset)
		}
		return curveParam(Curve1, c), nil
	case Curve2:
		c, ok := p.parseCurves(dataOffset, 2)
		if !ok {
			return Parameter{}, errs.InvalidData("curve2 parameter out of bounds at %#x", dataOffset)
		}
		return curveParam(Curve2, c), nil
	case Curve3:
		c, ok := p.parseCurves(dataOffset, 3)
		if !ok {
			return Parameter{}, errs.InvalidData("curve3 parameter out of bounds at %#x", dataOffset)
		}
		return curveParam(Curve3, c), nil
	case Curve4:
		c, ok := p.parseCurves(dataOffset, 4)
		if !ok {
			return Parameter{}, errs.InvalidData("curve4 parameter out of bounds at %#x", dataOffset)
		}
		return curveParam(Curve4, c), nil
	case BufferInt:
		n, ok := p.parseBufferLen(dataOffset)
		if !ok {
			return Parameter{}, errs.InvalidData("buffer_int length out of bounds at %#x", dataOffset)
		}
		p.r.Seek(int(dataOffset))
		out := make([]int32, n)
		for i := range out {
			v, ok := p.r.ReadI32()
			if !ok {
				return Parameter{}, errs.InvalidData("buffer_int payload out of bounds at %#x", dataOffset)
			}
			out[i] = v
		}
		return BufferIntParam(out), nil
	case BufferU32:
		n, ok := p.parseBufferLen(dataOffset)
		if !ok {
			return Parameter{}, errs.InvalidData("buffer_u32 length out of bounds at %#x", dataOffset)
		}
		p.r.Seek(int(dataOffset))
		out := make([]uint32, n)
		for i := range out {
			v, ok := p.r.ReadU32()
			if !ok {
				return Parameter{}, errs.InvalidData("buffer_u32 payload out of bounds at %#x", dataOffset)
			}
			out[i] = v
		}
		return BufferU32Param(out), nil
	case BufferF32:
		n, ok := p.parseBufferLen(dataOffset)
		if !ok {
			return Parameter{}, errs.InvalidData("buffer_f32 length out of bounds at %#x", dataOffset)
		}
		f, ok := p.readFloats(dataOffset, int(n))
		if !ok {
			return Parameter{}, errs.InvalidData("buffer_f32 payload out of bounds at %#x", dataOffset)
		}
		return BufferF32Param(f), nil
	case BufferBinary:
		n, ok := p.parseBufferLen(dataOffset)
		if !ok {
			return Parameter{}, errs.InvalidData("buffer_binary length out of bounds at %#x", dataOffset)
		}
		p.r.Seek(int(dataOffset))
		b, ok := p.r.ReadBytes(int(n))
		if !ok {
			return Parameter{}, errs.InvalidData("buffer_binary payload out of bounds at %#x", dataOffset)
		}
		return BufferBinaryParam(append([]byte(nil), b...)), nil
	default:
		return Parameter{}, errs.InvalidData("unexpected parameter type %#x", byte(typ))
	}
}
