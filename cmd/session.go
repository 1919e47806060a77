package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"s3-toolkit/core/audit"
	"s3-toolkit/core/config"
	"s3-toolkit/core/database"
	"s3-toolkit/core/gateway"
	"s3-toolkit/core/logger"
	"s3-toolkit/core/storage"
	"s3-toolkit/feature/bucket"
	"s3-toolkit/feature/multipart"
	"s3-toolkit/feature/object"
	"s3-toolkit/feature/website"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errClientInit is returned when the storage client cannot be created or reached.
var errClientInit = errors.New("failed to initialize storage client")

// Swapped out by tests.
var (
	connect   = gateway.Connect
	openAudit = openAuditRecorder
	newLogger = logger.New
)

// session holds everything one command invocation needs.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	runID    string
	command  string
	client   storage.Client
	recorder audit.Recorder
	out      io.Writer
}

// newSession loads configuration, builds the logger and connects to storage.
func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	baseLog, err := newLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log, runID := logger.WithRun(baseLog, cmd.Name())

	s := &session{
		cfg:     cfg,
		log:     log,
		runID:   runID,
		command: cmd.Name(),
		out:     cmd.OutOrStdout(),
	}

	client, err := connect(ctx, cfg.Storage, log)
	if err != nil {
		s.println("Failed to initialize storage client.")
		_ = log.Sync()
		return nil, fmt.Errorf("%w: %w", errClientInit, err)
	}
	s.client = client
	s.recorder = openAudit(ctx, cfg.Database, log)
	return s, nil
}

func openAuditRecorder(ctx context.Context, cfg database.Config, log *zap.Logger) audit.Recorder {
	if !cfg.Enabled {
		return audit.Nop{}
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Warn("Audit journal unavailable, continuing without it", zap.Error(err))
		return audit.Nop{}
	}
	recorder, err := audit.NewGormRecorder(db)
	if err != nil {
		log.Warn("Audit journal unavailable, continuing without it", zap.Error(err))
		return audit.Nop{}
	}
	return recorder
}

// withSession adapts a command body that needs a session to cobra's RunE.
func withSession(run func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()
		return run(cmd.Context(), s, args)
	}
}

func (s *session) close() {
	_ = s.log.Sync()
}

func (s *session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

// record stores the outcome of the command in the audit journal. Journal failures are only logged.
func (s *session) record(ctx context.Context, bucketName, key string, opErr error) {
	entry := audit.Entry{
		RunID:     s.runID,
		Command:   s.command,
		Bucket:    bucketName,
		Key:       key,
		Outcome:   audit.OutcomeSuccess,
		CreatedAt: time.Now().UTC(),
	}
	if opErr != nil {
		entry.Outcome = audit.OutcomeFailure
		entry.Detail = opErr.Error()
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.log.Warn("Failed to record audit entry", zap.Error(err))
	}
}

func (s *session) buckets() *bucket.Service {
	return bucket.NewService(s.client, s.cfg.Storage.Partition, s.log)
}

func (s *session) objects() *object.Service {
	return object.NewService(s.client, s.cfg.Storage, s.log)
}

func (s *session) uploader() *multipart.Uploader {
	return multipart.NewUploader(s.client, s.log)
}

func (s *session) websites() *website.Service {
	return website.NewService(s.buckets(), s.objects(), s.cfg.Storage.Region, s.log)
}
