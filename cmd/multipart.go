package cmd

import (
	"context"

	"s3-toolkit/feature/multipart"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var partSizeMB int64

var multipartUploadCmd = &cobra.Command{
	Use:   "multipart-upload <file> <bucket> <key>",
	Short: "Upload a large file in parts",
	Args:  cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		path, bucketName, key := args[0], args[1], args[2]
		upload, err := s.uploader().Upload(ctx, multipart.Request{
			Path:     path,
			Bucket:   bucketName,
			Key:      key,
			PartSize: partSizeMB * multipart.MiB,
			Progress: func(sent, total int64) {
				s.printf("Uploaded %s of %s\n", humanize.Bytes(uint64(sent)), humanize.Bytes(uint64(total)))
			},
		})
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.printf("Multipart upload failed: %v\n", err)
			return nil
		}
		s.printf("Multipart upload completed: %d part(s), ETag %s\n", len(upload.Parts), upload.Result.ETag)
		return nil
	}),
}

func init() {
	multipartUploadCmd.Flags().Int64Var(&partSizeMB, "part-size-mb", 5, "Part size in MiB")
	RootCmd.AddCommand(multipartUploadCmd)
}
