package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config addresses an S3-compatible bucket for mirrored artifacts.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string // key prefix inside the bucket
}

// Enabled reports whether an endpoint is configured at all.
func (c S3Config) Enabled() bool { return strings.TrimSpace(c.Endpoint) != "" }

func (c S3Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if strings.TrimSpace(c.AccessKey) == "" {
		missing = append(missing, "access key")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		missing = append(missing, "secret key")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("s3 artifact store: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// MinIOStore writes artifacts to an S3-compatible bucket.
type MinIOStore struct {
	client  *minio.Client
	cfg     S3Config
	timeout time.Duration
}

func NewMinIOStore(cfg S3Config) (*MinIOStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, err
	}
	return &MinIOStore{client: client, cfg: cfg, timeout: 30 * time.Second}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region})
}

func (s *MinIOStore) object(key string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || clean == "" || strings.HasSuffix(key, "/") {
		return "", errors.New("empty key")
	}
	if s.cfg.Prefix != "" {
		clean = path.Join(strings.Trim(s.cfg.Prefix, "/"), clean)
	}
	return clean, nil
}

func (s *MinIOStore) Put(key string, r io.Reader) (string, error) {
	obj, err := s.object(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, obj, r, -1,
		minio.PutObjectOptions{ContentType: contentType(obj)})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", obj, err)
	}
	return key, nil
}

func (s *MinIOStore) Get(key string) (io.ReadCloser, error) {
	obj, err := s.object(key)
	if err != nil {
		return nil, err
	}
	return s.client.GetObject(context.Background(), s.cfg.Bucket, obj, minio.GetObjectOptions{})
}

// URL is the path-style object URL; it is only reachable with credentials
// unless the bucket is public.
func (s *MinIOStore) URL(key string) (string, error) {
	obj, err := s.object(key)
	if err != nil {
		return "", err
	}
	u := *s.client.EndpointURL()
	u.Path = "/" + path.Join(s.cfg.Bucket, obj)
	return u.String(), nil
}

func contentType(obj string) string {
	switch path.Ext(obj) {
	case ".csv":
		return "text/csv"
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	}
	return "application/octet-stream"
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

var _ ArtifactStore = (*MinIOStore)(nil)
