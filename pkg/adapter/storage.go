package adapter

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Storage reads objects from Cloud Storage. It serves gs:// artifact URIs
// such as the service-account key.
type Storage interface {
	// Get opens the object for reading
	Get(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type storageClient struct {
	client *storage.Client
}

// NewStorage creates a Cloud Storage client with application default credentials
func NewStorage(ctx context.Context) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		client: client,
	}, nil
}

func (s *storageClient) Get(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage",
			goerr.V("bucket", bucket),
			goerr.V("object", object))
	}

	return reader, nil
}
