// Package source resolves statement document references into bytes. A
// reference is either a local path or a gs:// URI; cloud fetches go
// through Google Cloud Storage with Application Default Credentials.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// Document is one resolved reference: the display name ingest records as
// the statement's source name, plus the raw PDF bytes.
type Document struct {
	Name string
	Data []byte
}

// Resolver fetches documents from disk or GCS with one shared client.
type Resolver struct {
	client *storage.Client
}

// NewResolver creates a resolver. The storage client is lazy in the sense
// that local-only workloads never pay for it, so failures here only matter
// when a gs:// reference shows up.
func NewResolver(ctx context.Context) (*Resolver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewResolver: create storage client: %w", err)
	}
	return &Resolver{client: client}, nil
}

// NewLocalResolver creates a resolver that can only read local paths.
func NewLocalResolver() *Resolver {
	return &Resolver{}
}

// Close releases the storage client, if any.
func (r *Resolver) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Resolve turns one reference into a named document.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*Document, error) {
	if strings.HasPrefix(ref, "gs://") {
		return r.fetchObject(ctx, ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("Resolve: read %q: %w", ref, err)
	}
	return &Document{Name: path.Base(ref), Data: data}, nil
}

// Upload pushes a local file into a bucket under the given object name, so
// statements can be archived before ingestion.
func (r *Resolver) Upload(ctx context.Context, bucket, object, filePath string) error {
	if r.client == nil {
		return fmt.Errorf("Upload: resolver has no storage client")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("Upload: open %q: %w", filePath, err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := r.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("Upload: copy to gs://%s/%s: %w", bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Upload: finalize gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}

func (r *Resolver) fetchObject(ctx context.Context, uri string) (*Document, error) {
	if r.client == nil {
		return nil, fmt.Errorf("fetchObject: resolver has no storage client for %q", uri)
	}

	bucket, object, err := splitURI(uri)
	if err != nil {
		return nil, fmt.Errorf("fetchObject: %w", err)
	}

	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetchObject: open %q: %w", uri, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetchObject: read %q: %w", uri, err)
	}

	return &Document{Name: path.Base(object), Data: data}, nil
}

// splitURI breaks "gs://bucket/path/to/file.pdf" into bucket and object.
func splitURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI %q", uri)
	}
	return parts[0], parts[1], nil
}
