package object

import (
	"context"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// NoExtension is the folder for keys without a file extension.
const NoExtension = "no_extension"

// OrganizeReport summarizes an OrganizeByExtension run.
type OrganizeReport struct {
	// Counts is the number of objects per extension folder.
	Counts map[string]int
	// Moved is the number of objects that changed key.
	Moved int
	// Conflicts is the number of objects left in place because their destination was taken.
	Conflicts int
}

// Extensions returns the extension folders in sorted order.
func (r OrganizeReport) Extensions() []string {
	exts := make([]string, 0, len(r.Counts))
	for ext := range r.Counts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtensionKey returns the destination of key: <lower extension or no_extension>/<basename>.
func ExtensionKey(key string) (ext, dst string) {
	base := path.Base(key)
	ext = strings.TrimPrefix(strings.ToLower(path.Ext(base)), ".")
	if ext == "" {
		ext = NoExtension
	}
	return ext, ext + "/" + base
}

// OrganizeByExtension moves each object under prefix to its ExtensionKey.
// Folder placeholders (keys ending in "/") are skipped, and objects already at
// their destination are counted without being moved. An object whose destination
// already exists, or was claimed earlier in the run, is left where it is and counted
// as a conflict. The first failure stops the run.
func (s *Service) OrganizeByExtension(ctx context.Context, bucket, prefix string) (OrganizeReport, error) {
	report := OrganizeReport{Counts: make(map[string]int)}

	objects, err := s.List(ctx, bucket, prefix)
	if err != nil {
		return report, err
	}

	taken := make(map[string]bool, len(objects))
	for _, obj := range objects {
		taken[obj.Key] = true
	}

	for _, obj := range objects {
		if obj.IsFolder() {
			continue
		}
		ext, dst := ExtensionKey(obj.Key)
		if dst != obj.Key {
			exists, err := s.destinationTaken(ctx, bucket, prefix, dst, taken)
			if err != nil {
				return report, err
			}
			if exists {
				s.logger.Warn("Destination already taken, object left in place",
					zap.String("bucket", bucket),
					zap.String("key", obj.Key),
					zap.String("destination", dst),
				)
				report.Conflicts++
				continue
			}
			if err := s.Move(ctx, bucket, obj.Key, dst); err != nil {
				return report, err
			}
			taken[dst] = true
			report.Moved++
		}
		report.Counts[ext]++
	}

	s.logger.Info("Objects organized by extension",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Int("moved", report.Moved),
		zap.Int("conflicts", report.Conflicts),
		zap.Int("extensions", len(report.Counts)),
	)
	return report, nil
}

// destinationTaken reports whether dst is already used. Keys outside a prefixed
// listing are looked up in the bucket.
func (s *Service) destinationTaken(ctx context.Context, bucket, prefix, dst string, taken map[string]bool) (bool, error) {
	if taken[dst] {
		return true, nil
	}
	if prefix == "" {
		return false, nil
	}
	existing, err := s.List(ctx, bucket, dst)
	if err != nil {
		return false, err
	}
	for _, obj := range existing {
		if obj.Key == dst {
			taken[dst] = true
			return true, nil
		}
	}
	return false, nil
}
