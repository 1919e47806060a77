// Package awss3 implements storage.Client with the AWS SDK for Go v2.
//
// It is the default driver and the only one that supports every operation the tool
// offers, including public access blocks, object ACLs and static website hosting.
// SDK errors are classified into storage.Error values carrying the S3 error code
// reported by smithy (e.g., "NoSuchKey", "AccessDenied").
//
// The SDK client is held behind the API interface so tests can substitute it.
package awss3
