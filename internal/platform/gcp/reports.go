package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

const uploadTimeout = 2 * time.Minute

type ReportStoreConfig struct {
	Bucket       string
	Prefix       string
	Credentials  string
	EmulatorHost string
}

// StoredReport identifies an uploaded export.
type StoredReport struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
}

type ReportStore interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (*StoredReport, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

type reportStore struct {
	log    *logger.Logger
	client *storage.Client
	cfg    ReportStoreConfig
}

func NewReportStore(ctx context.Context, log *logger.Logger, cfg ReportStoreConfig) (ReportStore, error) {
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("report bucket required")
	}
	if host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/"); host != "" {
		u, err := url.Parse(host)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid storage emulator host %q", cfg.EmulatorHost)
		}
		// The storage client reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", host)
		cfg.EmulatorHost = host
	}
	client, err := storage.NewClient(ctx, ClientOptions(cfg.Credentials, cfg.EmulatorHost)...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	slog := log.With("service", "ReportStore", "bucket", cfg.Bucket)
	slog.Info("report storage initialized", "emulator", cfg.EmulatorHost != "")
	return &reportStore{log: slog, client: client, cfg: cfg}, nil
}

func (s *reportStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (*StoredReport, error) {
	key := ObjectKey(s.cfg.Prefix, name)
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write report to bucket: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close bucket writer: %w", err)
	}
	s.log.Info("report uploaded", "key", key)
	return &StoredReport{Bucket: s.cfg.Bucket, Key: key, URL: PublicURL(s.cfg.EmulatorHost, s.cfg.Bucket, key)}, nil
}

func (s *reportStore) List(ctx context.Context) ([]string, error) {
	it := s.client.Bucket(s.cfg.Bucket).Objects(ctx, &storage.Query{Prefix: ObjectKey(s.cfg.Prefix, "")})
	var keys []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (s *reportStore) Close() error { return s.client.Close() }

// ObjectKey joins prefix and name with exactly one slash between them.
func ObjectKey(prefix, name string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix + "/"
	}
	return path.Join(prefix, name)
}

func PublicURL(emulatorHost, bucket, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if emulatorHost != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", emulatorHost, bucket, url.PathEscape(key))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, escaped)
}
