package cardpb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Merge merges src into dst with proto.Merge: scalar fields set in src
// overwrite dst, singular messages merge recursively and repeated fields are
// appended. A collection that src carries as present but empty makes an
// absent dst collection present and empty.
func Merge(dst, src *ModelCard) error {
	if dst == nil {
		return fmt.Errorf("cardpb: merge into nil card")
	}
	if src == nil {
		return nil
	}
	m := dst.Message()
	proto.Merge(m, src.Message())
	if err := dst.replace(m.ProtoReflect()); err != nil {
		return fmt.Errorf("cardpb: merge: %w", err)
	}
	return nil
}

// Clone returns a deep copy of x.
func (x *ModelCard) Clone() *ModelCard {
	if x == nil {
		return nil
	}
	out := &ModelCard{}
	// Messages built from a struct always convert back.
	_ = out.replace(x.Message().ProtoReflect())
	return out
}
