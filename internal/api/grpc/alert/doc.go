// Package alert implements the gRPC control surface of p1-alert.
//
// The service is declared by hand over well-known protobuf types, so no code
// generation step is needed: Raise and Resolve take the caller's identity as a
// Struct and GetState takes Empty. Every method answers with a Struct holding
// the lifecycle status. The package also carries the matching client stub.
package alert
