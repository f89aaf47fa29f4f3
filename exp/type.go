package exp

import (
	"encoding/binary"
	"hash/fnv"
)

var (
	_ Type = (*NumType)(nil)
	_ Type = (*BoolType)(nil)
	_ Type = (*HoleType)(nil)
	_ Type = (*ArrowType)(nil)
)

// Type is the base for all types.
//
// The following types are supported:
//
//	NumType:   numbers
//	BoolType:  booleans
//	ArrowType: functions
//	HoleType:  the unknown type of gradual typing
//
// HoleType is not an error marker: it is the type of code that has not been
// written yet, and it is consistent with every other type.
type Type interface {
	typeNode()
	TypeName() string
	Equal(other Type) bool
	Hash() uint64
	String() string
}

// Num, Bool and Hole are the canonical instances of the nullary types.
var (
	Num  Type = &NumType{}
	Bool Type = &BoolType{}
	Hole Type = &HoleType{}
)

type NumType struct{}

func (t *NumType) typeNode()        {}
func (t *NumType) TypeName() string { return "Num" }
func (t *NumType) String() string   { return "Num" }
func (t *NumType) Equal(other Type) bool {
	_, ok := other.(*NumType)
	return ok
}
func (t *NumType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("NumType"))
	return h.Sum64()
}

type BoolType struct{}

func (t *BoolType) typeNode()        {}
func (t *BoolType) TypeName() string { return "Bool" }
func (t *BoolType) String() string   { return "Bool" }
func (t *BoolType) Equal(other Type) bool {
	_, ok := other.(*BoolType)
	return ok
}
func (t *BoolType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("BoolType"))
	return h.Sum64()
}

type HoleType struct{}

func (t *HoleType) typeNode()        {}
func (t *HoleType) TypeName() string { return "?" }
func (t *HoleType) String() string   { return "?" }
func (t *HoleType) Equal(other Type) bool {
	_, ok := other.(*HoleType)
	return ok
}
func (t *HoleType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("HoleType"))
	return h.Sum64()
}

// ArrowType is the type of functions from Param to Result.
type ArrowType struct {
	Param  Type
	Result Type
}

func NewArrow(param, result Type) *ArrowType {
	return &ArrowType{Param: param, Result: result}
}

func (t *ArrowType) typeNode()        {}
func (t *ArrowType) TypeName() string { return "Arrow" }
func (t *ArrowType) String() string {
	param := t.Param.String()
	if _, ok := t.Param.(*ArrowType); ok {
		param = "(" + param + ")"
	}
	return param + " -> " + t.Result.String()
}
func (t *ArrowType) Equal(other Type) bool {
	asArrow, ok := other.(*ArrowType)
	return ok && t.Param.Equal(asArrow.Param) && t.Result.Equal(asArrow.Result)
}
func (t *ArrowType) Hash() uint64 {
	h := fnv.New64a()
	arr := []byte("ArrowType")
	arr = binary.LittleEndian.AppendUint64(arr, t.Param.Hash())
	arr = binary.LittleEndian.AppendUint64(arr, t.Result.Hash())
	_, _ = h.Write(arr)
	return h.Sum64()
}

// IsHole reports whether t is the unknown type.
func IsHole(t Type) bool {
	_, ok := t.(*HoleType)
	return ok
}

// MatchedArrow returns the arrow structure of t, following the gradual
// matched-arrow convention: an ArrowType matches itself, and the unknown type
// matches ? -> ?. Any other type has no matched arrow.
func MatchedArrow(t Type) (*ArrowType, bool) {
	switch t := t.(type) {
	case *ArrowType:
		return t, true
	case *HoleType:
		return &ArrowType{Param: Hole, Result: Hole}, true
	default:
		return nil, false
	}
}
