// Package revmigv1 holds the generated gRPC API of the migration server.
package revmigv1

//go:generate protoc -I ../.. --go_out=../.. --go_opt=paths=source_relative --go-grpc_out=../.. --go-grpc_opt=paths=source_relative revmig/v1/revision.proto
