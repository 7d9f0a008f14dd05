package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/config"
	"google.golang.org/api/option"
)

// EvidenceFile is an unsaved evidence payload attached to an evaluated asset.
type EvidenceFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type UploadFailure struct {
	FileName string
	Err      error
}

// UploadResult splits a batch upload into the URLs that made it to the
// bucket and the files that did not.
type UploadResult struct {
	URLs   []string
	Failed []UploadFailure
}

// GCSEvidenceStore stores evidence files in a Google Cloud Storage
// bucket under a fixed prefix and serves them by public URL.
type GCSEvidenceStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSEvidenceStore(ctx context.Context, cfg *config.Config) (*GCSEvidenceStore, error) {
	var opts []option.ClientOption
	// Credentials file for local development; Application Default
	// Credentials everywhere else (Cloud Run provides them).
	if cfg.GCSKeyFile != "" {
		if _, err := os.Stat(cfg.GCSKeyFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(cfg.GCSKeyFile))
		}
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	slog.Info("evidence store initialized", "bucket", cfg.GCSBucket, "prefix", cfg.EvidencePrefix)
	return &GCSEvidenceStore{
		client: client,
		bucket: cfg.GCSBucket,
		prefix: strings.Trim(cfg.EvidencePrefix, "/"),
	}, nil
}

// UploadBatch uploads every file and reports successes and failures
// separately so the caller can decide what to do with a partial batch.
func (s *GCSEvidenceStore) UploadBatch(ctx context.Context, files []EvidenceFile) UploadResult {
	var result UploadResult
	for _, f := range files {
		url, err := s.upload(ctx, f)
		if err != nil {
			result.Failed = append(result.Failed, UploadFailure{FileName: f.FileName, Err: err})
			continue
		}
		result.URLs = append(result.URLs, url)
	}
	return result
}

func (s *GCSEvidenceStore) upload(ctx context.Context, f EvidenceFile) (string, error) {
	key := s.objectKey(uniqueName(f.FileName))
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = f.ContentType
	if w.ContentType == "" {
		w.ContentType = "application/octet-stream"
	}

	if _, err := w.Write(f.Data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write %s to gs://%s/%s: %w", f.FileName, s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", key, err)
	}

	return s.publicURL(key), nil
}

// Delete removes the object backing the given evidence URL. Deleting an
// object that is already gone is not an error.
func (s *GCSEvidenceStore) Delete(ctx context.Context, evidenceURL string) error {
	key := s.keyForURL(evidenceURL)
	if key == "" {
		return fmt.Errorf("cannot derive object key from url %q", evidenceURL)
	}

	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete gs://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

func (s *GCSEvidenceStore) Close() error {
	return s.client.Close()
}

func (s *GCSEvidenceStore) objectKey(name string) string {
	return s.prefix + "/" + name
}

func (s *GCSEvidenceStore) publicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

// keyForURL rebuilds the object key from a public URL: the object name
// is the last path segment, always under the configured prefix.
func (s *GCSEvidenceStore) keyForURL(evidenceURL string) string {
	name := path.Base(evidenceURL)
	if name == "." || name == "/" || name == "" {
		return ""
	}
	return s.objectKey(name)
}

func uniqueName(original string) string {
	ext := path.Ext(original)
	if ext == "" {
		ext = ".jpg"
	}
	return uuid.New().String() + ext
}
