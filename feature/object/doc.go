// Package object provides object-level operations.
//
// # Uploads
//
// A local file can be uploaded three ways, chosen with Strategy:
//   - StrategyDirect: the storage driver opens and sends the file itself
//   - StrategyStream: the file is opened here and streamed with its known size
//   - StrategyBuffered: the file is read into memory and sent as one body
//
// All three store the same bytes. Relay downloads a file from a URL and only
// stores it when its content sniffs as an allowed image or video type.
// SmartUpload sniffs a local file and shelves it under its top-level MIME type.
//
// # Versions
//
// ListVersions returns version records in backend order. RestorePreviousVersion
// writes the bytes of the second-newest version as a new current version and
// deletes nothing. PurgeVersionsOlderThan deletes versions older than a number
// of 30-day months.
//
// # Reorganization
//
// OrganizeByExtension moves every object under a prefix to
// <extension>/<basename> with copy then delete. Running it again on its own
// output moves nothing.
package object
