package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	bucketRegion    string
	expirationDays  int
	lifecyclePrefix string
)

var testClientCmd = &cobra.Command{
	Use:   "test-client",
	Short: "Check that the storage client can connect",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		s.println("Storage client initialized successfully.")
		s.record(ctx, "", "", nil)
		return nil
	}),
}

var listBucketsCmd = &cobra.Command{
	Use:   "list-s3buckets",
	Short: "List all buckets",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		buckets, err := s.buckets().List(ctx)
		s.record(ctx, "", "", err)
		if err != nil {
			s.println("Failed to list buckets. Check logs for details.")
			return nil
		}
		if len(buckets) == 0 {
			s.println("No buckets found.")
			return nil
		}
		s.println("Buckets available:")
		for _, b := range buckets {
			if b.CreatedAt.IsZero() {
				s.printf(" - %s\n", b.Name)
				continue
			}
			s.printf(" - %s (created %s)\n", b.Name, humanize.Time(b.CreatedAt))
		}
		return nil
	}),
}

var createBucketCmd = &cobra.Command{
	Use:   "create-s3bucket <bucket>",
	Short: "Create a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		err := s.buckets().Create(ctx, name, bucketRegion)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to create bucket '%s'. Check logs for details.\n", name)
			return nil
		}
		s.printf("Bucket '%s' created successfully in '%s'.\n", name, bucketRegion)
		return nil
	}),
}

var deleteBucketCmd = &cobra.Command{
	Use:   "delete-s3bucket <bucket>",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		err := s.buckets().Delete(ctx, name)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to delete bucket '%s'. Check logs for details.\n", name)
			return nil
		}
		s.printf("Bucket '%s' deleted successfully.\n", name)
		return nil
	}),
}

var bucketExistsCmd = &cobra.Command{
	Use:   "bucket-exists <bucket>",
	Short: "Check whether a bucket exists",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		exists, err := s.buckets().Exists(ctx, name)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to check bucket '%s': %v\n", name, err)
			return nil
		}
		s.printf("Bucket '%s' exists: %t\n", name, exists)
		return nil
	}),
}

var createBucketPolicyCmd = &cobra.Command{
	Use:   "create-bucket-policy <bucket>",
	Short: "Grant anonymous read access to every object in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		err := s.buckets().SetPublicReadPolicy(ctx, name)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to create bucket policy: %v\n", err)
			return nil
		}
		s.println("Bucket policy created successfully.")
		return nil
	}),
}

var readBucketPolicyCmd = &cobra.Command{
	Use:   "read-bucket-policy <bucket>",
	Short: "Print the bucket policy",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		policy, err := s.buckets().ReadPolicy(ctx, name)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to read bucket policy for '%s'.\n", name)
			return nil
		}
		s.println(policy)
		return nil
	}),
}

var enableVersioningCmd = &cobra.Command{
	Use:   "enable-versioning <bucket>",
	Short: "Enable versioning on a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		err := s.buckets().EnableVersioning(ctx, name)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to enable versioning on '%s'.\n", name)
			return nil
		}
		s.printf("Versioning enabled for bucket '%s'.\n", name)
		return nil
	}),
}

var checkVersioningCmd = &cobra.Command{
	Use:   "check-versioning <bucket>",
	Short: "Show the versioning status of a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		status, err := s.buckets().VersioningStatus(ctx, name)
		s.record(ctx, name, "", err)
		if err != nil {
			s.printf("Failed to check versioning on '%s'.\n", name)
			return nil
		}
		s.printf("Versioning status for '%s': %s\n", name, status)
		return nil
	}),
}

var putLifecyclePolicyCmd = &cobra.Command{
	Use:   "put-lifecycle-policy <bucket>",
	Short: "Expire objects after a number of days",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		name := args[0]
		err := s.buckets().ConfigureLifecycle(ctx, name, lifecyclePrefix, expirationDays)
		s.record(ctx, name, lifecyclePrefix, err)
		if err != nil {
			s.printf("Failed to apply lifecycle policy: %v\n", err)
			return nil
		}
		s.println("Lifecycle policy applied successfully.")
		return nil
	}),
}

func init() {
	createBucketCmd.Flags().StringVar(&bucketRegion, "region", "us-west-2", "Region to create the bucket in")
	putLifecyclePolicyCmd.Flags().IntVar(&expirationDays, "expiration-days", 120, "Expiration period in days")
	putLifecyclePolicyCmd.Flags().StringVar(&lifecyclePrefix, "prefix", "", "Prefix to limit objects (optional)")

	RootCmd.AddCommand(
		testClientCmd,
		listBucketsCmd,
		createBucketCmd,
		deleteBucketCmd,
		bucketExistsCmd,
		createBucketPolicyCmd,
		readBucketPolicyCmd,
		enableVersioningCmd,
		checkVersioningCmd,
		putLifecyclePolicyCmd,
	)
}
