package adapter_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/curriculo/pkg/adapter"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type mockStorage struct {
	objects map[string][]byte
	calls   int
}

func (m *mockStorage) Get(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	m.calls++
	data, ok := m.objects[bucket+"/"+object]
	if !ok {
		return nil, goerr.New("object not found", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestDownloadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/key.json":
			w.Write([]byte(`{"type":"service_account"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	d := adapter.NewDownloader(adapter.WithHTTPClient(srv.Client()))

	t.Run("success", func(t *testing.T) {
		r, err := d.Download(ctx, srv.URL+"/key.json")
		gt.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		gt.NoError(t, err)
		gt.Equal(t, string(data), `{"type":"service_account"}`)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		_, err := d.Download(ctx, srv.URL+"/missing")
		gt.Error(t, err)
	})
}

func TestDownloadGCS(t *testing.T) {
	ctx := context.Background()
	storage := &mockStorage{
		objects: map[string][]byte{
			"my-bucket/secrets/credentials.json": []byte("key"),
		},
	}

	t.Run("object", func(t *testing.T) {
		d := adapter.NewDownloader(adapter.WithStorage(storage))
		r, err := d.Download(ctx, "gs://my-bucket/secrets/credentials.json")
		gt.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		gt.NoError(t, err)
		gt.Equal(t, string(data), "key")
	})

	t.Run("missing object path", func(t *testing.T) {
		d := adapter.NewDownloader(adapter.WithStorage(storage))
		_, err := d.Download(ctx, "gs://my-bucket")
		gt.Error(t, err)
	})

	t.Run("storage not configured", func(t *testing.T) {
		d := adapter.NewDownloader()
		_, err := d.Download(ctx, "gs://my-bucket/secrets/credentials.json")
		gt.Error(t, err)
	})
}

func TestDownloadUnsupportedScheme(t *testing.T) {
	d := adapter.NewDownloader()
	_, err := d.Download(context.Background(), "ftp://example.com/key.json")
	gt.Error(t, err)
}

func TestDirectDriveURL(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "share link",
			input: "https://drive.google.com/file/d/106I47V_fx/view?usp=sharing",
			want:  "https://drive.google.com/uc?export=download&id=106I47V_fx",
		},
		{
			name:  "open link",
			input: "https://drive.google.com/open?id=abc123",
			want:  "https://drive.google.com/uc?export=download&id=abc123",
		},
		{
			name:  "already direct",
			input: "https://drive.google.com/uc?id=106I47V_fx",
			want:  "https://drive.google.com/uc?id=106I47V_fx",
		},
		{
			name:  "other host",
			input: "https://example.com/file/d/abc/view",
			want:  "https://example.com/file/d/abc/view",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, adapter.DirectDriveURL(tc.input), tc.want)
		})
	}
}
