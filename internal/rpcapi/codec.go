package rpcapi

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype this package registers under.
// Dialers must select it with grpc.CallContentSubtype(rpcapi.CodecName)
// (as peerconn.Manager does when it dials) so the wire encoding matches what the server
// expects; a server always accepts whatever subtype the request names.
const CodecName = "json"

// jsonCodec implements grpc/encoding.Codec over encoding/json in place
// of protobuf's wire format. grpc-go dispatches Marshal/Unmarshal by the
// "content-subtype" the client requests, so a hand-written service pair
// can ride on the real grpc.Server/ClientConn machinery without
// protoc-generated proto.Message types.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpcapi: marshal %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpcapi: unmarshal into %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
