// Package blobstore provides storage abstraction for checkpoints and
// run artifacts.
//
// Store is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use. Checkpoints are
// written and read as whole objects, so the interface deals in byte
// slices rather than streams.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with atomic replace on Put
//   - MemoryStore: In-memory store for testing
//   - s3.Store: Amazon S3 with multipart uploads
//   - s3.DDBCommitStore: S3 plus a DynamoDB-backed latest pointer
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Put must replace any existing blob of the same name atomically:
// readers never observe a partially written blob.
package blobstore
