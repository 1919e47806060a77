// Package storage defines the object storage data model shared by every feature.
//
// It owns three things:
//   - Client: the interface of backend operations, implemented by the drivers in
//     core/storage/awss3 (AWS SDK v2) and core/storage/minio (MinIO Go client).
//   - Typed records: BucketDescriptor, ObjectKey, VersionRecord, PartRecord and friends.
//     Drivers convert SDK responses into these at the point they are received.
//   - Error: the error taxonomy (Connection, RemoteService, UnsupportedMediaType, LocalIO,
//     MultipartUpload). Each kind matches its sentinel through errors.Is.
//
// # Client Interface
//
// Features receive a Client by constructor injection. Tests use the testify double in
// core/storage/mocks or the versioned in-memory store in core/storage/memstore.
//
// # Usage
//
//	exists, err := client.BucketExists(ctx, "assets")
//	if errors.Is(err, storage.ErrRemoteService) {
//	    // report failure
//	}
package storage
