package aamp

import (
	"bytes"

	"github.com/joshuapare/nxbin/errs"
	bin "github.com/joshuapare/nxbin/internal/binary"
)

const (
	resParamListListsOff   = 4
	resParamListObjectsOff = 8
	resParamObjParamsOff   = 4
	resParamDataOff        = 4
)

var demoAIActionIdxKey = NameFromString("DemoAIActionIdx")

// ToBinary serializes pio to a binary parameter archive. The
// order in which parameter data and names are emitted follows the
// same convoluted, observationally-derived algorithm real game
// archives use, not simple tree order, since that is
// what lets a round-tripped file stay byte-identical to one produced
// by the original tooling.
func ToBinary(pio *ParameterIO) ([]byte, error) {
	ctx := &writeCtx{
		w:             bin.NewWriter(bin.LittleEndian),
		listOffsets:   make(map[*ParameterList]int),
		objOffsets:    make(map[*ParameterObject]int),
		paramOffsets:  make(map[*Parameter]int),
		stringOffsets: make(map[string]int),
	}

	ctx.w.Seek(headerSize)
	ctx.w.WriteCStr(pio.Type)
	ctx.w.AlignUp(4)
	offsetToPio := ctx.w.Tell()

	ctx.writeLists(pio.ParameterList)
	ctx.writeObjects(pio.ParameterList)
	ctx.collectParameters(pio.ParameterList)
	ctx.writeParameters(pio.ParameterList)

	dataSectionBegin := ctx.w.Tell()
	if err := ctx.writeDataSection(); err != nil {
		return nil, err
	}

	stringSectionBegin := ctx.w.Tell()
	ctx.writeStringSection()

	unkSectionBegin := ctx.w.Tell()
	ctx.w.AlignUp(4)
	ctx.w.GrowBuffer()
	fileSize := ctx.w.Tell()

	ctx.w.Seek(0)
	ctx.w.WriteBytes([]byte("AAMP"))
	ctx.w.WriteU32(2)
	ctx.w.WriteU32(flagLittleEndian | flagUtf8)
	ctx.w.WriteU32(uint32(fileSize))
	ctx.w.WriteU32(pio.Version)
	ctx.w.WriteU32(uint32(offsetToPio - headerSize))
	ctx.w.WriteU32(ctx.numLists)
	ctx.w.WriteU32(ctx.numObjects)
	ctx.w.WriteU32(ctx.numParameters)
	ctx.w.WriteU32(uint32(stringSectionBegin - dataSectionBegin))
	ctx.w.WriteU32(uint32(unkSectionBegin - stringSectionBegin))
	ctx.w.WriteU32(0)

	return ctx.w.Finalize(), nil
}

// writeCtx accumulates state across the multi-pass write algorithm:
// structure headers are written first (in tree order), then parameter
// data and strings are written in the collection order CollectParameters
// determines, with offsets patched back into the already-written
// headers. offsets are tracked by pointer identity, mirroring oead's
// absl::flat_hash_map<const void*, u32>.
type writeCtx struct {
	w             *bin.Writer
	numLists      uint32
	numObjects    uint32
	numParameters uint32

	paramsToWrite       []*Parameter
	stringParamsToWrite []*Parameter

	listOffsets   map[*ParameterList]int
	objOffsets    map[*ParameterObject]int
	paramOffsets  map[*Parameter]int
	stringOffsets map[string]int
}

func (ctx *writeCtx) writeCompactOffset16At(placeholderOffset, base int) {
	rel := uint16((ctx.w.Tell() - base) / 4)
	ctx.w.WriteU16At(placeholderOffset, rel)
}

func (ctx *writeCtx) writeOffsetForParentList(list *ParameterList, fieldOffset int) {
	base := ctx.listOffsets[list]
	ctx.writeCompactOffset16At(base+fieldOffset, base)
}

func (ctx *writeCtx) writeOffsetForParentObject(obj *ParameterObject, fieldOffset int) {
	base := ctx.objOffsets[obj]
	ctx.writeCompactOffset16At(base+fieldOffset, base)
}

func (ctx *writeCtx) writeList(name Name, list *ParameterList) {
	ctx.listOffsets[list] = ctx.w.Tell()
	ctx.numLists++
	ctx.w.WriteU32(name.Hash)
	ctx.w.WriteU16(0)
	ctx.w.WriteU16(uint16(list.Lists.Len()))
	ctx.w.WriteU16(0)
	ctx.w.WriteU16(uint16(list.Objects.Len()))
}

func (ctx *writeCtx) writeObject(name Name, obj *ParameterObject) {
	ctx.objOffsets[obj] = ctx.w.Tell()
	ctx.numObjects++
	ctx.w.WriteU32(name.Hash)
	ctx.w.WriteU16(0)
	ctx.w.WriteU16(uint16(obj.Params.Len()))
}

func (ctx *writeCtx) writeParameter(name Name, p *Parameter) {
	ctx.paramOffsets[p] = ctx.w.Tell()
	ctx.numParameters++
	ctx.w.WriteU32(name.Hash)
	ctx.w.WriteU24(0)
	ctx.w.WriteU8(byte(p.Type()))
}

// writeLists writes every list header, in tree order:
// the root first, then each level's children before recursing into
// grandchildren.
func (ctx *writeCtx) writeLists(root *ParameterList) {
	ctx.writeList(ParamRootKey, root)
	ctx.writeListsRec(root)
}

func (ctx *writeCtx) writeListsRec(list *ParameterList) {
	ctx.writeOffsetForParentList(list, resParamListListsOff)
	list.Lists.Each(func(name Name, child *ParameterList) {
		ctx.writeList(name, child)
	})
	list.Lists.Each(func(_ Name, child *ParameterList) {
		ctx.writeListsRec(child)
	})
}

// writeObjects writes every object header, depth-first, objects before
// lists at each level.
func (ctx *writeCtx) writeObjects(list *ParameterList) {
	ctx.writeOffsetForParentList(list, resParamListObjectsOff)
	list.Objects.Each(func(name Name, obj *ParameterObject) {
		ctx.writeObject(name, obj)
	})
	list.Lists.Each(func(_ Name, child *ParameterList) {
		ctx.writeObjects(child)
	})
}

// writeParameters writes every parameter header, depth-first, lists
// before objects at each level (the opposite order from writeObjects).
func (ctx *writeCtx) writeParameters(list *ParameterList) {
	list.Lists.Each(func(_ Name, child *ParameterList) {
		ctx.writeParameters(child)
	})
	list.Objects.Each(func(name Name, obj *ParameterObject) {
		ctx.writeOffsetForParentObject(obj, resParamObjParamsOff)
		obj.Params.Each(func(pname Name, p *Parameter) {
			ctx.writeParameter(pname, p)
		})
	})
}

// collectParameters determines the order in which parameter data and
// string payloads are written out. This does not follow
// simple tree order: up to 7 of the root's objects are processed
// before any of its child lists, and thereafter one object is
// interleaved for every two child lists visited, except for the
// "DemoAIActionIdx" special case where the parent list's own objects
// are deferred entirely until after every child list.
func (ctx *writeCtx) collectParameters(root *ParameterList) {
	ctx.collect(root, true)
}

func (ctx *writeCtx) collect(list *ParameterList, processTopObjectsFirst bool) {
	keys := list.Objects.Keys()
	idx := 0
	processOne := func() {
		obj, _ := list.Objects.Get(keys[idx])
		obj.Params.Each(func(_ Name, p *Parameter) {
			if IsStringType(p.Type()) {
				ctx.stringParamsToWrite = append(ctx.stringParamsToWrite, p)
			} else {
				ctx.paramsToWrite = append(ctx.paramsToWrite, p)
			}
		})
		idx++
	}

	isBotwAiprog := len(keys) > 0 && keys[0] == demoAIActionIdxKey

	if processTopObjectsFirst && !isBotwAiprog {
		for i := 0; i < 7 && idx < len(keys); i++ {
			processOne()
		}
	}

	i := 0
	list.Lists.Each(func(_ Name, child *ParameterList) {
		if !isBotwAiprog && i%2 == 0 && idx < len(keys) {
			processOne()
		}
		ctx.collect(child, false)
		i++
	})

	for idx < len(keys) {
		processOne()
	}
}

func (ctx *writeCtx) writeDataSection() error {
	lookupStart := ctx.w.Tell()
	for _, p := range ctx.paramsToWrite {
		if err := ctx.writeParameterData(p, lookupStart); err != nil {
			return err
		}
	}
	ctx.w.AlignUp(4)
	return nil
}

func (ctx *writeCtx) writeStringSection() {
	for _, p := range ctx.stringParamsToWrite {
		ctx.writeString(p)
	}
	ctx.w.AlignUp(4)
}

// encodeParamData renders a non-string parameter's raw value bytes,
// matching the wire layout ParseParameter reads back: buffer types are
// prefixed with a 4-byte element count, everything else is written
// flat with no framing.
func (ctx *writeCtx) encodeParamData(p *Parameter) ([]byte, error) {
	tmp := bin.NewWriter(bin.LittleEndian)
	switch p.Type() {
	case Bool:
		v, _ := p.GetBool()
		if v {
			tmp.WriteU32(1)
		} else {
			tmp.WriteU32(0)
		}
	case F32:
		v, _ := p.GetF32()
		tmp.WriteF32(v)
	case Int:
		v, _ := p.GetInt()
		tmp.WriteI32(v)
	case Vec2Type:
		v, _ := p.GetVec2()
		tmp.WriteF32(v.X)
		tmp.WriteF32(v.Y)
	case Vec3Type:
		v, _ := p.GetVec3()
		tmp.WriteF32(v.X)
		tmp.WriteF32(v.Y)
		tmp.WriteF32(v.Z)
	case Vec4Type:
		v, _ := p.GetVec4()
		tmp.WriteF32(v.X)
		tmp.WriteF32(v.Y)
		tmp.WriteF32(v.Z)
		tmp.WriteF32(v.W)
	case ColorType:
		v, _ := p.GetColor()
		tmp.WriteF32(v.R)
		tmp.WriteF32(v.G)
		tmp.WriteF32(v.B)
		tmp.WriteF32(v.A)
	case QuatType:
		v, _ := p.GetQuat()
		tmp.WriteF32(v.A)
		tmp.WriteF32(v.B)
		tmp.WriteF32(v.C)
		tmp.WriteF32(v.D)
	case U32:
		v, _ := p.GetU32()
		tmp.WriteU32(v)
	case Curve1, Curve2, Curve3, Curve4:
		curves, err := p.getCurve(p.Type())
		if err != nil {
			return nil, err
		}
		for _, c := range curves {
			tmp.WriteU32(c.A)
			tmp.WriteU32(c.B)
			for _, f := range c.Floats {
				tmp.WriteF32(f)
			}
		}
	case BufferInt:
		v, _ := p.GetBufferInt()
		tmp.WriteU32(uint32(len(v)))
		for _, x := range v {
			tmp.WriteI32(x)
		}
	case BufferU32:
		v, _ := p.GetBufferU32()
		tmp.WriteU32(uint32(len(v)))
		for _, x := range v {
			tmp.WriteU32(x)
		}
	case BufferF32:
		v, _ := p.GetBufferF32()
		tmp.WriteU32(uint32(len(v)))
		for _, x := range v {
			tmp.WriteF32(x)
		}
	case BufferBinary:
		v, _ := p.GetBufferBinary()
		tmp.WriteU32(uint32(len(v)))
		tmp.WriteBytes(v)
	default:
		return nil, errs.InvalidData("unexpected non-string parameter type %s", p.Type())
	}
	return tmp.Finalize(), nil
}

// writeParameterData writes one parameter's payload to the data
// section, reusing an identical previously-written run of bytes if
// one exists within reach of the 24-bit compact offset.
func (ctx *writeCtx) writeParameterData(p *Parameter, lookupStart int) error {
	if IsStringType(p.Type()) {
		return errs.InvalidData("writeParameterData called with string parameter")
	}
	temp, err := ctx.encodeParamData(p)
	if err != nil {
		return err
	}

	parentOffset := ctx.paramOffsets[p]
	dataOffset := ctx.w.Tell()
	if IsBufferType(p.Type()) {
		dataOffset += 4
	}
	found := false

	buf := ctx.w.Bytes()
	for offset := lookupStart; offset+len(temp) <= len(buf) && offset-parentOffset < (1<<24)*4; offset += 4 {
		if bytes.Equal(temp, buf[offset:offset+len(temp)]) {
			dataOffset = offset
			if IsBufferType(p.Type()) {
				dataOffset += 4
			}
			found = true
			break
		}
	}

	ctx.w.WriteU24At(parentOffset+resParamDataOff, uint32(dataOffset-parentOffset)/4)

	if !found {
		ctx.w.WriteBytes(temp)
		ctx.w.AlignUp(4)
	}
	return nil
}

// writeString writes one string parameter's payload to the string
// section, deduplicating by exact string match.
func (ctx *writeCtx) writeString(p *Parameter) {
	parentOffset := ctx.paramOffsets[p]
	s, _ := p.GetStringView()

	offset, existed := ctx.stringOffsets[s]
	if !existed {
		offset = ctx.w.Tell()
		ctx.stringOffsets[s] = offset
	}

	ctx.w.WriteU24At(parentOffset+resParamDataOff, uint32(offset-parentOffset)/4)

	if !existed {
		ctx.w.WriteCStr(s)
		ctx.w.AlignUp(4)
	}
}
