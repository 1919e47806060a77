package cmd

import (
	"context"

	"s3-toolkit/feature/object"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	keepLocal      bool
	purgeMonths    int
	organizePrefix string
)

var setObjectAccessPolicyCmd = &cobra.Command{
	Use:   "set-object-access-policy <bucket> <key>",
	Short: "Make a single object publicly readable",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName, key := args[0], args[1]
		err := s.objects().SetPublicReadACL(ctx, bucketName, key)
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.printf("Failed to set object access policy for '%s'.\n", key)
			return nil
		}
		s.printf("Access policy set to public-read for object '%s' in bucket '%s'.\n", key, bucketName)
		return nil
	}),
}

var downloadAndUploadCmd = &cobra.Command{
	Use:   "download-and-upload <url> <bucket> <key>",
	Short: "Download an image or video and store it in a bucket",
	Long: `Downloads a file and stores it when its content is a BMP, JPEG, PNG or WebP
image or an MP4 video. Other content is rejected without uploading.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		url, bucketName, key := args[0], args[1], args[2]
		location, err := s.objects().Relay(ctx, object.RelayRequest{
			SourceURL: url,
			Bucket:    bucketName,
			Key:       key,
			KeepLocal: keepLocal,
		})
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.printf("Download or upload failed: %v\n", err)
			return nil
		}
		s.printf("File successfully uploaded to: %s\n", location)
		return nil
	}),
}

// uploadCommand builds one of the three local upload commands.
func uploadCommand(use, short string, strategy object.Strategy) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file> <bucket> <key>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: withSession(func(ctx context.Context, s *session, args []string) error {
			path, bucketName, key := args[0], args[1], args[2]
			_, err := s.objects().Upload(ctx, object.UploadRequest{
				Path:     path,
				Bucket:   bucketName,
				Key:      key,
				Strategy: strategy,
			})
			s.record(ctx, bucketName, key, err)
			if err != nil {
				s.printf("Upload failed: %v\n", err)
				return nil
			}
			s.printf("File uploaded successfully (%s upload).\n", strategy)
			return nil
		}),
	}
}

var deleteObjectCmd = &cobra.Command{
	Use:   "delete-object <bucket> <key>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName, key := args[0], args[1]
		err := s.objects().Delete(ctx, bucketName, key)
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.println("Failed to delete object. Check logs.")
			return nil
		}
		s.printf("Object '%s' deleted successfully.\n", key)
		return nil
	}),
}

var listVersionsCmd = &cobra.Command{
	Use:   "list-versions <bucket> <key>",
	Short: "List the versions of an object",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName, key := args[0], args[1]
		versions, err := s.objects().ListVersions(ctx, bucketName, key)
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.printf("Failed to list versions of '%s'.\n", key)
			return nil
		}
		if len(versions) == 0 {
			s.printf("No versions found for '%s'.\n", key)
			return nil
		}
		s.printf("Versions of '%s':\n", key)
		for _, v := range versions {
			latest := ""
			if v.IsLatest {
				latest = " (latest)"
			}
			s.printf(" - %s %s VersionId: %s, %s, %s%s\n",
				v.Key, v.LastModified.Format("2006-01-02 15:04:05"), v.VersionID,
				humanize.Bytes(uint64(v.Size)), humanize.Time(v.LastModified), latest)
		}
		return nil
	}),
}

var restorePreviousVersionCmd = &cobra.Command{
	Use:   "restore-previous-version <bucket> <key>",
	Short: "Make the previous version of an object current again",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName, key := args[0], args[1]
		res, err := s.objects().RestorePreviousVersion(ctx, bucketName, key)
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.printf("Failed to restore previous version of '%s': %v\n", key, err)
			return nil
		}
		s.printf("Previous version of '%s' restored as version %s.\n", key, res.VersionID)
		return nil
	}),
}

var cleanOldVersionsCmd = &cobra.Command{
	Use:   "clean-old-versions <bucket> <key>...",
	Short: "Delete object versions older than a number of months",
	Args:  cobra.MinimumNArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName := args[0]
		svc := s.objects()
		for _, key := range args[1:] {
			s.printf("Checking versions for: %s\n", key)
			deleted, err := svc.PurgeVersionsOlderThan(ctx, bucketName, key, purgeMonths)
			s.record(ctx, bucketName, key, err)
			if err != nil {
				s.printf("Failed to clean versions of '%s': %v\n", key, err)
				continue
			}
			if len(deleted) == 0 {
				s.printf("No old versions found for '%s'\n", key)
				continue
			}
			s.printf("Deleted %d old version(s) of '%s':\n", len(deleted), key)
			for _, v := range deleted {
				s.printf(" - VersionId: %s, Date: %s\n", v.VersionID, v.LastModified.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	}),
}

var organizeFilesCmd = &cobra.Command{
	Use:   "organize-files <bucket>",
	Short: "Move objects into folders named after their extension",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName := args[0]
		report, err := s.objects().OrganizeByExtension(ctx, bucketName, organizePrefix)
		s.record(ctx, bucketName, organizePrefix, err)
		if err != nil {
			s.printf("Failed to organize files: %v\n", err)
			return nil
		}
		s.printf("Organized files in '%s' (%d moved):\n", bucketName, report.Moved)
		for _, ext := range report.Extensions() {
			s.printf(" - %s: %d\n", ext, report.Counts[ext])
		}
		if report.Conflicts > 0 {
			s.printf("Skipped %d object(s) whose destination already exists.\n", report.Conflicts)
		}
		return nil
	}),
}

var smartUploadCmd = &cobra.Command{
	Use:   "smart-upload <file> <bucket>",
	Short: "Upload a file into a folder named after its MIME type",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		path, bucketName := args[0], args[1]
		key, err := s.objects().SmartUpload(ctx, path, bucketName)
		s.record(ctx, bucketName, key, err)
		if err != nil {
			s.printf("Upload failed: %v\n", err)
			return nil
		}
		s.printf("File uploaded successfully to '%s'\n", key)
		return nil
	}),
}

func init() {
	downloadAndUploadCmd.Flags().BoolVar(&keepLocal, "keep-local", false, "Also save the downloaded file locally")
	cleanOldVersionsCmd.Flags().IntVar(&purgeMonths, "months", 6, "Delete versions older than this many months")
	organizeFilesCmd.Flags().StringVar(&organizePrefix, "prefix", "", "Prefix for filtering files (optional)")

	RootCmd.AddCommand(
		setObjectAccessPolicyCmd,
		downloadAndUploadCmd,
		uploadCommand("upload-file", "Upload a file (driver-managed transfer)", object.StrategyDirect),
		uploadCommand("upload-file-obj", "Upload a file by streaming an open handle", object.StrategyStream),
		uploadCommand("upload-file-put", "Upload a file by reading it into memory", object.StrategyBuffered),
		deleteObjectCmd,
		listVersionsCmd,
		restorePreviousVersionCmd,
		cleanOldVersionsCmd,
		organizeFilesCmd,
		smartUploadCmd,
	)
}
