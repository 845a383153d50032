package monitor

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pingcap/errors"
	"github.com/rommelsantor/Timeout"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Serializer 把事件编码成一帧 websocket 消息
type Serializer interface {
	// Marshal 编码事件
	Marshal(ev timeout.Event) ([]byte, error)
	// MessageType websocket 帧类型, websocket.TextMessage 或 websocket.BinaryMessage
	MessageType() int
}

// NewJSONSerializer JSON 文本帧, 时长以纳秒整数表示
func NewJSONSerializer() Serializer {
	return jsonSerializer{}
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(ev timeout.Event) ([]byte, error) {
	return json.Marshal(ev)
}

func (jsonSerializer) MessageType() int {
	return websocket.TextMessage
}

// NewProtobufSerializer protobuf 二进制帧, 消息类型为 google.protobuf.Struct, 字段与 JSON 相同
func NewProtobufSerializer() Serializer {
	return protobufSerializer{}
}

type protobufSerializer struct{}

func (protobufSerializer) Marshal(ev timeout.Event) ([]byte, error) {
	fields := map[string]any{
		"registry":  ev.Registry,
		"kind":      ev.Kind.String(),
		"key":       ev.Key,
		"at":        ev.At.Format(time.RFC3339Nano),
		"delay":     int64(ev.Delay),
		"remaining": int64(ev.Remaining),
	}
	if ev.Callback != "" {
		fields["callback"] = ev.Callback
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Annotatef(err, "convert event %v of timer %q", ev.Kind, ev.Key)
	}
	return proto.Marshal(s)
}

func (protobufSerializer) MessageType() int {
	return websocket.BinaryMessage
}

// SerializerByName 按名称选择编码, 供命令行使用
func SerializerByName(name string) (Serializer, error) {
	switch name {
	case "json", "":
		return NewJSONSerializer(), nil
	case "protobuf", "proto":
		return NewProtobufSerializer(), nil
	default:
		return nil, errors.Errorf("unknown serializer %q", name)
	}
}
