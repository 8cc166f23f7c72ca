// Package cardpb holds the protocol-buffer form of a model card. The message
// layout is proto/model_card.proto; File returns the same layout as a
// resolved descriptor, and the structs here convert to and from dynamic
// messages of it, so encoding and merging go through the protobuf runtime.
// The Go types use pointer scalars so that an unset field and a field set to
// the empty string stay distinct.
//
// Repeated fields cannot express "present but empty" on the wire, so every
// message with repeated fields reserves field 15 for a packed list of the
// field numbers that are present with no entries. The conversion writes and
// reads that marker automatically.
package cardpb
