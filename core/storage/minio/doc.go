// Package minio implements storage.Client with the MinIO Go SDK.
//
// It targets S3-compatible services such as MinIO or Ceph. Operations the SDK
// does not expose (object ACLs, website hosting) fail with storage.ErrNotSupported,
// and the public access block is treated as absent.
package minio
