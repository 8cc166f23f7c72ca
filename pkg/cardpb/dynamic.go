package cardpb

import (
	"fmt"
	"reflect"
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

var stringType = reflect.TypeOf("")

// Message returns x as a proto.Message of the ModelCard descriptor, usable
// with proto, protojson and prototext. The result is a copy.
func (x *ModelCard) Message() proto.Message {
	return toDynamic(reflect.ValueOf(x), Descriptor())
}

// FromMessage converts a message of the ModelCard descriptor, generated or
// dynamic, back to the struct form.
func FromMessage(m proto.Message) (*ModelCard, error) {
	if m == nil {
		return nil, fmt.Errorf("cardpb: nil message")
	}
	r := m.ProtoReflect()
	if got, want := r.Descriptor().FullName(), Descriptor().FullName(); got != want {
		return nil, fmt.Errorf("cardpb: message is %s, want %s", got, want)
	}
	x := &ModelCard{}
	if err := fromDynamic(r, reflect.ValueOf(x)); err != nil {
		return nil, err
	}
	return x, nil
}

func fieldNumber(f reflect.StructField) protoreflect.FieldNumber {
	n, err := strconv.Atoi(f.Tag.Get("pb"))
	if err != nil {
		panic(fmt.Sprintf("cardpb: %s has no pb field number", f.Name))
	}
	return protoreflect.FieldNumber(n)
}

// toDynamic copies the struct behind ptr into a new message of md. A nil ptr
// gives an empty message.
func toDynamic(ptr reflect.Value, md protoreflect.MessageDescriptor) *dynamicpb.Message {
	m := dynamicpb.NewMessage(md)
	if ptr.IsNil() {
		return m
	}
	v := ptr.Elem()
	var empty []protoreflect.FieldNumber
	for i := 0; i < v.NumField(); i++ {
		num := fieldNumber(v.Type().Field(i))
		fd := md.Fields().ByNumber(num)
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Pointer:
			if fv.IsNil() {
				continue
			}
			if fv.Type().Elem() == stringType {
				m.Set(fd, protoreflect.ValueOfString(fv.Elem().String()))
				continue
			}
			m.Set(fd, protoreflect.ValueOfMessage(toDynamic(fv, fd.Message())))
		case reflect.Slice:
			if fv.IsNil() {
				continue
			}
			if fv.Len() == 0 {
				empty = append(empty, num)
				continue
			}
			list := m.Mutable(fd).List()
			for j := 0; j < fv.Len(); j++ {
				item := fv.Index(j)
				if item.Kind() == reflect.String {
					list.Append(protoreflect.ValueOfString(item.String()))
					continue
				}
				list.Append(protoreflect.ValueOfMessage(toDynamic(item, fd.Message())))
			}
		}
	}
	if len(empty) > 0 {
		list := m.Mutable(md.Fields().ByNumber(presentEmptyField)).List()
		for _, num := range empty {
			list.Append(protoreflect.ValueOfInt32(int32(num)))
		}
	}
	return m
}

// fromDynamic fills the struct behind ptr from m. Fields of m with a wire
// type that does not match the descriptor land in m's unknown fields and are
// reported as errors.
func fromDynamic(m protoreflect.Message, ptr reflect.Value) error {
	if err := checkUnknown(m); err != nil {
		return err
	}
	md := m.Descriptor()
	v := ptr.Elem()
	byNumber := make(map[protoreflect.FieldNumber]reflect.Value, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		num := fieldNumber(v.Type().Field(i))
		fv := v.Field(i)
		byNumber[num] = fv
		fd := md.Fields().ByNumber(num)
		if fd == nil || !m.Has(fd) {
			continue
		}
		switch {
		case fd.IsList():
			list := m.Get(fd).List()
			out := reflect.MakeSlice(fv.Type(), list.Len(), list.Len())
			for j := 0; j < list.Len(); j++ {
				if fd.Kind() == protoreflect.StringKind {
					out.Index(j).SetString(list.Get(j).String())
					continue
				}
				item := reflect.New(fv.Type().Elem().Elem())
				if err := fromDynamic(list.Get(j).Message(), item); err != nil {
					return fmt.Errorf("%s.%d: %w", fd.Name(), j, err)
				}
				out.Index(j).Set(item)
			}
			fv.Set(out)
		case fd.Kind() == protoreflect.MessageKind:
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			if err := fromDynamic(m.Get(fd).Message(), fv); err != nil {
				return fmt.Errorf("%s: %w", fd.Name(), err)
			}
		default:
			s := m.Get(fd).String()
			fv.Set(reflect.ValueOf(&s))
		}
	}

	pe := md.Fields().ByNumber(presentEmptyField)
	if pe == nil || !m.Has(pe) {
		return nil
	}
	marks := m.Get(pe).List()
	for j := 0; j < marks.Len(); j++ {
		fv, ok := byNumber[protoreflect.FieldNumber(marks.Get(j).Int())]
		if ok && fv.Kind() == reflect.Slice && fv.IsNil() {
			fv.Set(reflect.MakeSlice(fv.Type(), 0, 0))
		}
	}
	return nil
}

func checkUnknown(m protoreflect.Message) error {
	b := m.GetUnknown()
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeField(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		if m.Descriptor().Fields().ByNumber(num) != nil {
			return fmt.Errorf("field %d: unexpected wire type %d", num, typ)
		}
		b = b[n:]
	}
	return nil
}
