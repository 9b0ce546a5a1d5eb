package rpc

import (
	"encoding/json"
)

const codecName = "json"

// jsonCodec serializes the plain message structs of the service.
// It replaces connect's protobuf based json codec under the same name,
// so the connect, grpc and grpc-web protocols all negotiate "json".
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return codecName
}

func (jsonCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	// an empty body is the zero message
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}
