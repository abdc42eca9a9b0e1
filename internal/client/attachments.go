package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/soda/internal/constants"
	internalhttp "github.com/fivetwenty-io/soda/internal/http"
	"github.com/fivetwenty-io/soda/pkg/soda"
)

// DownloadAttachments downloads every attachment of a dataset into
// downloadDir/<dataset id>, creating the directory as needed and expanding a
// leading "~". It returns the local paths written. A failed download aborts
// the operation; the paths already written are returned alongside the error.
// Datasets without attachments return (nil, nil).
func (c *Client) DownloadAttachments(ctx context.Context, identifier, downloadDir string) ([]string, error) {
	id, err := soda.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	metadata, err := c.GetMetadata(ctx, identifier)
	if err != nil {
		return nil, err
	}

	attachments := metadata.Attachments()
	if len(attachments) == 0 {
		c.info("No attachments were found or downloaded", map[string]interface{}{
			"dataset": id.Dataset,
		})

		return nil, nil
	}

	dir, err := expandHome(downloadDir)
	if err != nil {
		return nil, err
	}

	dir = filepath.Join(dir, id.Dataset)
	if err := os.MkdirAll(dir, constants.DownloadDirPerm); err != nil {
		return nil, fmt.Errorf("creating download directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(attachments))

	for _, attachment := range attachments {
		path, err := c.downloadAttachment(ctx, id, attachment, dir)
		if err != nil {
			return files, err
		}

		files = append(files, path)
	}

	c.info("Attachments downloaded", map[string]interface{}{
		"dataset": id.Dataset,
		"count":   len(files),
		"files":   files,
	})

	return files, nil
}

// downloadAttachment streams one attachment to disk and returns the local
// path. Assets are served from the views files endpoint, blobs from the
// asset store.
func (c *Client) downloadAttachment(ctx context.Context, id soda.Identifier, attachment soda.Attachment, dir string) (string, error) {
	if err := validateFilename(attachment.Filename); err != nil {
		return "", err
	}

	var req *internalhttp.Request

	switch {
	case attachment.AssetID != "":
		req = &internalhttp.Request{
			Method: http.MethodGet,
			Path:   constants.ViewsPath + "/" + id.Dataset + "/files/" + attachment.AssetID,
			Query:  url.Values{"download": {"true"}, "filename": {attachment.Filename}},
		}
	case attachment.BlobID != "":
		req = &internalhttp.Request{
			Method: http.MethodGet,
			Path:   constants.AssetsPath + "/" + attachment.BlobID,
			Query:  url.Values{"download": {"true"}},
		}
	default:
		return "", fmt.Errorf("%w: %q", soda.ErrAttachmentNoAsset, attachment.Filename)
	}

	stream, err := c.httpClient.DoStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("downloading attachment %q: %w", attachment.Filename, err)
	}
	defer func() { _ = stream.Body.Close() }()

	path := filepath.Join(dir, attachment.Filename)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.DownloadFilePerm)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := io.Copy(file, stream.Body); err != nil {
		_ = file.Close()

		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}

// validateFilename rejects attachment names that would escape the download
// directory. Names are server-provided and untrusted.
func validateFilename(name string) error {
	if name == "" {
		return soda.ErrAttachmentEmptyName
	}

	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", soda.ErrUnsafeAttachmentName, name)
	}

	return nil
}

// expandHome expands a leading "~" to the user's home directory.
func expandHome(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}

		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}

	return dir, nil
}
