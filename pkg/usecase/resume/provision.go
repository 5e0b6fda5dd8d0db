package resume

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/curriculo/pkg/adapter"
	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/curriculo/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// EnsureFile makes sure a file exists at localPath, downloading it from
// remoteURI when absent. An existing file is never touched and no network
// call is made. The download is written to a temporary file in the same
// directory and renamed into place, so a failed download leaves nothing at
// localPath.
func EnsureFile(ctx context.Context, d adapter.Downloader, localPath, remoteURI string) error {
	if localPath == "" {
		return goerr.New("local path is required", goerr.T(model.ErrTagProvisioning))
	}

	if _, err := os.Stat(localPath); err == nil {
		logging.From(ctx).Debug("artifact found locally", "path", localPath)
		return nil
	} else if !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to stat artifact",
			goerr.V("path", localPath),
			goerr.T(model.ErrTagProvisioning))
	}

	if remoteURI == "" {
		return goerr.New("artifact is missing and no download URI is set",
			goerr.V("path", localPath),
			goerr.T(model.ErrTagProvisioning))
	}

	logging.From(ctx).Info("downloading artifact", "path", localPath)

	body, err := d.Download(ctx, remoteURI)
	if err != nil {
		return goerr.Wrap(err, "failed to download artifact",
			goerr.V("path", localPath),
			goerr.T(model.ErrTagProvisioning))
	}
	defer body.Close()

	if err := writeFileAtomic(localPath, body); err != nil {
		return goerr.Wrap(err, "failed to write artifact",
			goerr.V("path", localPath),
			goerr.T(model.ErrTagProvisioning))
	}

	return nil
}

// EnsureCredential provisions the service-account key used for Sheets
// authentication. Failure is fatal for the pipeline.
func EnsureCredential(ctx context.Context, d adapter.Downloader, localPath, remoteURI string) error {
	if err := EnsureFile(ctx, d, localPath, remoteURI); err != nil {
		return goerr.Wrap(err, "failed to provision credential", goerr.T(model.ErrTagProvisioning))
	}
	return nil
}

func writeFileAtomic(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to copy downloaded data")
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temporary file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return goerr.Wrap(err, "failed to move file into place")
	}
	return nil
}
