package cardpb

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

const protoPackage = "modelcard"

// presentEmptyField carries the numbers of repeated fields that are present
// but hold no entries, so empty and absent collections survive the wire.
const presentEmptyField protoreflect.FieldNumber = 15

func optString(name string, num int32) *descriptorpb.FieldDescriptorProto {
	return field(name, num, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING, "")
}

func repString(name string, num int32) *descriptorpb.FieldDescriptorProto {
	return field(name, num, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_STRING, "")
}

func optMessage(name string, num int32, typ string) *descriptorpb.FieldDescriptorProto {
	return field(name, num, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typ)
}

func repMessage(name string, num int32, typ string) *descriptorpb.FieldDescriptorProto {
	return field(name, num, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typ)
}

func presentEmpty() *descriptorpb.FieldDescriptorProto {
	f := field("present_empty", int32(presentEmptyField), descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_INT32, "")
	f.Options = &descriptorpb.FieldOptions{Packed: proto.Bool(true)}
	return f
}

func field(name string, num int32, label descriptorpb.FieldDescriptorProto_Label, typ descriptorpb.FieldDescriptorProto_Type, msg string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  label.Enum(),
		Type:   typ.Enum(),
	}
	if msg != "" {
		f.TypeName = proto.String("." + protoPackage + "." + msg)
	}
	return f
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

// fileProto mirrors proto/model_card.proto.
func fileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("modelcard/model_card.proto"),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto2"),
		Options: &descriptorpb.FileOptions{GoPackage: proto.String("github.com/goliatone/go-modelcard/pkg/cardpb")},
		MessageType: []*descriptorpb.DescriptorProto{
			message("ModelCard",
				optMessage("model_details", 1, "ModelDetails"),
				optMessage("model_parameters", 2, "ModelParameters"),
				optMessage("quantitative_analysis", 3, "QuantitativeAnalysis"),
				optMessage("considerations", 4, "Considerations"),
			),
			message("ModelDetails",
				optString("name", 1),
				optString("overview", 2),
				optString("documentation", 3),
				repMessage("owners", 4, "Owner"),
				optMessage("version", 5, "Version"),
				repMessage("licenses", 6, "License"),
				repMessage("references", 7, "Reference"),
				repMessage("citations", 8, "Citation"),
				optString("path", 9),
				optMessage("graphics", 10, "GraphicsCollection"),
				presentEmpty(),
			),
			message("Owner", optString("name", 1), optString("contact", 2)),
			message("Version", optString("name", 1), optString("date", 2), optString("diff", 3)),
			message("License", optString("identifier", 1), optString("custom_text", 2)),
			message("Reference", optString("reference", 1)),
			message("Citation", optString("style", 1), optString("citation", 2)),
			message("ModelParameters",
				optString("model_architecture", 1),
				repMessage("data", 2, "Dataset"),
				optString("input_format", 3),
				optString("output_format", 4),
				repMessage("input_format_map", 5, "KeyVal"),
				repMessage("output_format_map", 6, "KeyVal"),
				presentEmpty(),
			),
			message("KeyVal", optString("key", 1), optString("value", 2)),
			message("Dataset",
				optString("name", 1),
				optString("description", 2),
				optString("link", 3),
				optMessage("sensitive", 4, "SensitiveData"),
				optMessage("graphics", 5, "GraphicsCollection"),
			),
			message("SensitiveData", repString("sensitive_data", 1), presentEmpty()),
			message("GraphicsCollection",
				optString("description", 1),
				repMessage("collection", 2, "Graphic"),
				presentEmpty(),
			),
			message("Graphic", optString("name", 1), optString("image", 2)),
			message("QuantitativeAnalysis",
				repMessage("performance_metrics", 1, "PerformanceMetric"),
				optMessage("graphics", 2, "GraphicsCollection"),
				presentEmpty(),
			),
			message("PerformanceMetric",
				optString("type", 1),
				optString("value", 2),
				optString("slice", 3),
				optString("threshold", 4),
				optMessage("confidence_interval", 5, "ConfidenceInterval"),
			),
			message("ConfidenceInterval", optString("lower_bound", 1), optString("upper_bound", 2)),
			message("Considerations",
				repMessage("users", 1, "Consideration"),
				repMessage("use_cases", 2, "Consideration"),
				repMessage("limitations", 3, "Consideration"),
				repMessage("tradeoffs", 4, "Consideration"),
				repMessage("ethical_considerations", 5, "Risk"),
				presentEmpty(),
			),
			message("Consideration", optString("description", 1)),
			message("Risk", optString("name", 1), optString("mitigation_strategy", 2)),
		},
	}
}

var (
	fileOnce sync.Once
	fileDesc protoreflect.FileDescriptor
	fileErr  error
)

// File returns the resolved descriptor of proto/model_card.proto.
func File() protoreflect.FileDescriptor {
	fileOnce.Do(func() {
		fileDesc, fileErr = protodesc.NewFile(fileProto(), nil)
	})
	if fileErr != nil {
		panic(fmt.Sprintf("cardpb: invalid model_card.proto descriptor: %v", fileErr))
	}
	return fileDesc
}

// Descriptor returns the descriptor of the ModelCard message.
func Descriptor() protoreflect.MessageDescriptor {
	return File().Messages().ByName("ModelCard")
}
