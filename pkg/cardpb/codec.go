package cardpb

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Marshal encodes the card in protobuf wire format. Output is deterministic.
func (x *ModelCard) Marshal() ([]byte, error) {
	if x == nil {
		return nil, nil
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(x.Message())
	if err != nil {
		return nil, fmt.Errorf("cardpb: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal replaces the card with the decoded contents of b. Unknown fields
// are skipped.
func (x *ModelCard) Unmarshal(b []byte) error {
	m := dynamicpb.NewMessage(Descriptor())
	if err := proto.Unmarshal(b, m); err != nil {
		return fmt.Errorf("cardpb: unmarshal: %w", err)
	}
	return x.replace(m)
}

// MarshalPrototext encodes the card in protobuf text format.
func (x *ModelCard) MarshalPrototext() ([]byte, error) {
	b, err := prototext.MarshalOptions{Multiline: true}.Marshal(x.Message())
	if err != nil {
		return nil, fmt.Errorf("cardpb: marshal text: %w", err)
	}
	return b, nil
}

// UnmarshalPrototext replaces the card with the decoded protobuf text b.
func (x *ModelCard) UnmarshalPrototext(b []byte) error {
	m := dynamicpb.NewMessage(Descriptor())
	if err := prototext.Unmarshal(b, m); err != nil {
		return fmt.Errorf("cardpb: unmarshal text: %w", err)
	}
	return x.replace(m)
}

// MarshalProtoJSON encodes the card with the protobuf JSON mapping, which
// uses lowerCamelCase names and differs from the payload schema.
func (x *ModelCard) MarshalProtoJSON() ([]byte, error) {
	b, err := protojson.MarshalOptions{Multiline: true}.Marshal(x.Message())
	if err != nil {
		return nil, fmt.Errorf("cardpb: marshal json: %w", err)
	}
	return b, nil
}

func (x *ModelCard) UnmarshalProtoJSON(b []byte) error {
	m := dynamicpb.NewMessage(Descriptor())
	if err := protojson.Unmarshal(b, m); err != nil {
		return fmt.Errorf("cardpb: unmarshal json: %w", err)
	}
	return x.replace(m)
}

func (x *ModelCard) replace(m protoreflect.Message) error {
	out := ModelCard{}
	if err := fromDynamic(m, reflect.ValueOf(&out)); err != nil {
		return fmt.Errorf("cardpb: %w", err)
	}
	*x = out
	return nil
}
