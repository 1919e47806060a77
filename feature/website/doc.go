// Package website publishes static sites from local files.
//
// HostDocument uploads a single page as the index document. HostFolder uploads
// a whole directory tree under its relative paths. Both then open the bucket
// to anonymous reads and enable website hosting, and return the website
// endpoint of the bucket.
//
// Content types come from the file name first and from the file content when
// the extension is unknown.
package website
