package cmd

import (
	"context"

	"s3-toolkit/feature/website"

	"github.com/spf13/cobra"
)

var siteOpts website.Options

var hostWebsiteCmd = &cobra.Command{
	Use:   "host-website <file> <bucket>",
	Short: "Publish a single page as a static website",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		path, bucketName := args[0], args[1]
		res, err := s.websites().HostDocument(ctx, path, bucketName, siteOpts)
		s.record(ctx, bucketName, path, err)
		if err != nil {
			s.printf("Failed to host website: %v\n", err)
			return nil
		}
		s.printf("Website hosted at: %s\n", res.Endpoint)
		return nil
	}),
}

var hostSiteWithSourceCmd = &cobra.Command{
	Use:   "host-site-with-source <bucket> <dir>",
	Short: "Publish a folder as a static website",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, s *session, args []string) error {
		bucketName, dir := args[0], args[1]
		res, err := s.websites().HostFolder(ctx, dir, bucketName, siteOpts)
		s.record(ctx, bucketName, dir, err)
		if err != nil {
			s.printf("Failed to host website after %d file(s): %v\n", res.Files, err)
			return nil
		}
		s.printf("Uploaded %d file(s).\n", res.Files)
		s.printf("Website hosted at: %s\n", res.Endpoint)
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{hostWebsiteCmd, hostSiteWithSourceCmd} {
		c.Flags().StringVar(&siteOpts.IndexDocument, "index-document", "index.html", "Index document of the site")
		c.Flags().StringVar(&siteOpts.ErrorDocument, "error-document", "error.html", "Error document of the site")
	}
	RootCmd.AddCommand(hostWebsiteCmd, hostSiteWithSourceCmd)
}
