package adapter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Downloader fetches a remote artifact by URI
type Downloader interface {
	Download(ctx context.Context, uri string) (io.ReadCloser, error)
}

type downloader struct {
	httpClient *http.Client
	storage    Storage
}

// DownloaderOption is a functional option for Downloader
type DownloaderOption func(*downloader)

// WithHTTPClient replaces the HTTP client used for http(s) URIs
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *downloader) {
		d.httpClient = client
	}
}

// WithStorage enables gs:// URIs
func WithStorage(storage Storage) DownloaderOption {
	return func(d *downloader) {
		d.storage = storage
	}
}

// NewDownloader creates a Downloader supporting http, https and, when a
// Storage is given, gs:// URIs.
func NewDownloader(opts ...DownloaderOption) Downloader {
	d := &downloader{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *downloader) Download(ctx context.Context, uri string) (io.ReadCloser, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid download URI", goerr.V("uri", uri))
	}

	switch u.Scheme {
	case "http", "https":
		return d.downloadHTTP(ctx, DirectDriveURL(uri))

	case "gs":
		if d.storage == nil {
			return nil, goerr.New("gs:// URI requires Cloud Storage", goerr.V("uri", uri))
		}
		object := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || object == "" {
			return nil, goerr.New("gs:// URI must be gs://<bucket>/<object>", goerr.V("uri", uri))
		}
		return d.storage.Get(ctx, u.Host, object)

	default:
		return nil, goerr.New("unsupported download scheme",
			goerr.V("uri", uri),
			goerr.V("supported", []string{"http", "https", "gs"}))
	}
}

func (d *downloader) downloadHTTP(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("uri", uri))
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download", goerr.V("uri", uri))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, goerr.New("unexpected download status",
			goerr.V("uri", uri),
			goerr.V("status", resp.StatusCode))
	}

	return resp.Body, nil
}

var drivePathID = regexp.MustCompile(`^/file/d/([^/]+)`)

// DirectDriveURL rewrites Google Drive share links (/file/d/<id>/view,
// /open?id=<id>) into the direct download form. Other URIs, including links
// already in uc?id= form, are returned unchanged.
func DirectDriveURL(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Host != "drive.google.com" {
		return uri
	}

	var id string
	if m := drivePathID.FindStringSubmatch(u.Path); m != nil {
		id = m[1]
	} else if u.Path == "/open" {
		id = u.Query().Get("id")
	}
	if id == "" {
		return uri
	}

	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", id)
	return "https://drive.google.com/uc?" + q.Encode()
}
