package aamp

import "github.com/joshuapare/nxbin/internal/orderedmap"

// ParamRootKey is the Name every ParameterIO's root list serializes
// under.
var ParamRootKey = NameFromString("param_root")

// ParameterObject is an insertion-ordered dictionary of parameters
//. Construct with NewParameterObject.
type ParameterObject struct {
	Params *orderedmap.Map[Name, *Parameter]
}

// NewParameterObject returns an empty ParameterObject.
func NewParameterObject() *ParameterObject {
	return &ParameterObject{Params: orderedmap.New[Name, *Parameter]()}
}

// Set inserts or updates a parameter by name.
func (o *ParameterObject) Set(name Name, p Parameter) { o.Params.Set(name, &p) }

// SetByString inserts or updates a parameter, hashing name on the fly.
func (o *ParameterObject) SetByString(name string, p Parameter) {
	o.Set(NameFromString(name), p)
}

// Get looks up a parameter by name.
func (o *ParameterObject) Get(name Name) (Parameter, bool) {
	p, ok := o.Params.Get(name)
	if !ok {
		return Parameter{}, false
	}
	return *p, true
}

// ParameterList is an insertion-ordered tree node: a dictionary of
// child lists and a dictionary of objects. Construct with
// NewParameterList.
type ParameterList struct {
	Lists   *orderedmap.Map[Name, *ParameterList]
	Objects *orderedmap.Map[Name, *ParameterObject]
}

// NewParameterList returns an empty ParameterList.
func NewParameterList() *ParameterList {
	return &ParameterList{
		Lists:   orderedmap.New[Name, *ParameterList](),
		Objects: orderedmap.New[Name, *ParameterObject](),
	}
}

// SetList inserts or updates a child list by name.
func (l *ParameterList) SetList(name Name, child *ParameterList) { l.Lists.Set(name, child) }

// SetObject inserts or updates a child object by name.
func (l *ParameterList) SetObject(name Name, obj *ParameterObject) { l.Objects.Set(name, obj) }

// ParameterIO is the root of an AAMP document: a ParameterList plus a
// data version and type-name string.
type ParameterIO struct {
	*ParameterList
	Version uint32
	Type    string
}

// NewParameterIO returns an empty ParameterIO of the given type name
// (e.g. "xml"), data version 0.
func NewParameterIO(typeName string) *ParameterIO {
	return &ParameterIO{ParameterList: NewParameterList(), Type: typeName}
}
