package storage

import "io"

// ArtifactStore holds the files a grading run produces.
type ArtifactStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	URL(key string) (string, error) // fs returns "file://..."
}
