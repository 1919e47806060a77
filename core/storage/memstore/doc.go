// Package memstore provides a versioned in-memory storage.Client.
//
// It follows the observable S3 semantics the features rely on: versioned buckets keep
// every revision newest first and turn deletes into delete markers, unversioned buckets
// keep a single "null" version, multipart uploads are assembled in the order the parts
// are submitted, and public policies are refused while the public access block is set.
//
// Tests use the inspection helpers (Object, VersionBytes, PartSizes, Policy, ...) to
// assert on the resulting state, Seed to create versions at fixed times, and FailOn
// to inject a backend rejection for one operation.
package memstore
