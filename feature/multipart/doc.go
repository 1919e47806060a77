// Package multipart uploads large local files in fixed-size parts.
//
// # Workflow
//
// An upload session moves through Initiated, PartsUploading and Completed, or
// ends in Failed from any of them:
//
//  1. The first chunk is read and sniffed for the content type.
//  2. The backend issues an upload id.
//  3. Chunks are read sequentially and sent with part numbers 1, 2, 3...; the
//     returned ETags are kept in order. A short or empty read ends the loop.
//  4. The ordered part list is submitted and the backend assembles the object.
//
// Any failure is returned as a storage error of kind MultipartUpload. The
// session is not aborted; its upload id is logged so it can be cleaned up by
// hand or by a bucket lifecycle rule.
//
// # Usage
//
//	u := multipart.NewUploader(client, log)
//	session, err := u.Upload(ctx, multipart.Request{
//	    Path:     "backup.tar",
//	    Bucket:   "archive",
//	    Key:      "2024/backup.tar",
//	    PartSize: 8 * multipart.MiB,
//	})
package multipart
