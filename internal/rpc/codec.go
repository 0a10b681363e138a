// Package rpc declares the Connect BillService: procedure names, message types,
// handler registration and a typed client. Messages are plain Go structs carried
// by a JSON codec.
package rpc

import "encoding/json"

// JSONCodec marshals messages with encoding/json. It is registered under the
// name "json", replacing Connect's protojson codec, so requests use
// Content-Type application/json.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
