// Package rpcapi is the wire contract between nodes: two gRPC services,
// ClientService (spec.md §6's client_server namespace) and PeerService
// (the server/peer-to-peer namespace), multiplexed on one *grpc.Server.
//
// The message types and service descriptors below are written in the
// shape protoc-gen-go / protoc-gen-go-grpc would emit from
// proto/fileserver.proto, but by hand: a JSON content-subtype codec
// (codec.go) stands in for the protobuf wire codec, so these types are
// plain JSON-tagged structs rather than generated proto.Message
// implementations. Nothing downstream of ClientServiceClient /
// PeerServiceClient cares which codec is underneath.
package rpcapi
