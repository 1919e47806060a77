// Package bucket provides bucket-level operations.
//
// It covers creation and deletion, existence checks, the public-read policy,
// versioning, lifecycle expiration and static website configuration. Every
// call is forwarded to the storage client once; failures are logged here and
// returned as storage errors of kind RemoteService.
package bucket
