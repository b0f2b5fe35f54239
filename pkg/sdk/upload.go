package sdk

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rethought/thirdlight-sdk-go/pkg/model"
	"github.com/rethought/thirdlight-sdk-go/pkg/response"
)

// uploadLifetimeSecs is the server-side lifetime requested for upload
// sessions.
const uploadLifetimeSecs = 60

// uploadFileKey names the single file of an upload in fileData and in the
// upload report.
const uploadFileKey = "upload_file"

// UploadOptions controls the destination and metadata of an image upload.
// Destination resolution prefers FolderID; when it is empty, FolderPath is
// resolved against the folder tree, defaulting to the root "/".
type UploadOptions struct {
	FolderID   string
	FolderPath string
	Caption    string
	Keywords   []string
}

func (o UploadOptions) folderPath() string {
	if o.FolderPath == "" {
		return "/"
	}
	return o.FolderPath
}

// UploadImage uploads the image at source and blocks until the remote has
// processed it. On success it returns the per-file result from the upload
// report.
//
// A note on duplicates: ThirdLight de-duplicates across the whole site,
// including the trash can. A file that exists anywhere in the library lands
// in the approval queue instead of the destination folder.
func (c *Client) UploadImage(ctx context.Context, source string, opts UploadOptions) (*response.Wrapped, error) {
	uploadKey, report, err := c.startUpload(ctx, source, opts, true)
	if err != nil {
		return nil, err
	}

	if err := c.CompleteUpload(ctx, uploadKey); err != nil {
		return nil, err
	}

	if report == nil {
		return nil, &UploadFailedError{Source: source, Report: nil}
	}
	succeeded, err := report.GetResponse("succeeded")
	if err != nil {
		var missing *response.MissingKeyError
		if errors.As(err, &missing) {
			return nil, &UploadFailedError{Source: source, Report: report}
		}
		return nil, fmt.Errorf("upload report: %w", err)
	}

	return succeeded.GetResponse(uploadFileKey)
}

// UploadImageAsync starts an upload and returns its uploadKey immediately.
// Callers poll UploadProgress and must call CompleteUpload themselves once
// the remote reports completion.
func (c *Client) UploadImageAsync(ctx context.Context, source string, opts UploadOptions) (string, error) {
	uploadKey, _, err := c.startUpload(ctx, source, opts, false)
	return uploadKey, err
}

// UploadProgress reports the state of an asynchronous upload.
func (c *Client) UploadProgress(ctx context.Context, uploadKey string) (*response.Wrapped, error) {
	return c.Call(ctx, "Upload.GetUploadProgress", map[string]any{"uploadKey": uploadKey})
}

// CompleteUpload finalizes an upload session.
func (c *Client) CompleteUpload(ctx context.Context, uploadKey string) error {
	_, err := c.Call(ctx, "Upload.CompleteUpload", map[string]any{"uploadKey": uploadKey})
	return err
}

// startUpload runs the create/add/start legs shared by the blocking and
// asynchronous upload flows. It returns the upload key and the start report.
// The whole source file is read and base64 encoded in memory; keep an eye on
// very large assets.
func (c *Client) startUpload(ctx context.Context, source string, opts UploadOptions, blocking bool) (string, *response.Wrapped, error) {
	folderID := opts.FolderID
	if folderID == "" {
		var err error
		folderID, err = c.ResolveFolderID(ctx, opts.folderPath(), false)
		if err != nil {
			return "", nil, err
		}
	}

	created, err := c.Call(ctx, "Upload.CreateUpload", map[string]any{
		"params": map[string]any{
			"destination": folderID,
			"synchronous": false,
			"lifetime":    uploadLifetimeSecs,
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("create upload: %w", err)
	}
	if created == nil {
		return "", nil, fmt.Errorf("create upload: empty response")
	}
	uploadKey, err := created.GetString("uploadKey")
	if err != nil {
		return "", nil, fmt.Errorf("create upload: %w", err)
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", source, err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	zap.L().Info("uploading file",
		zap.String("source", source),
		zap.Int("encoded_bytes", len(encoded)))

	keywords := opts.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	fileData := map[string]any{
		uploadFileKey: model.UploadFile{
			Encoding: model.EncodingBase64,
			Name:     filepath.Base(source),
			Data:     encoded,
			Metadata: model.UploadMetadata{
				Caption:  opts.Caption,
				Keywords: keywords,
			},
		},
	}

	if _, err := c.Call(ctx, "Upload.AddFilesToUpload", map[string]any{
		"uploadKey": uploadKey,
		"fileData":  fileData,
	}); err != nil {
		return "", nil, fmt.Errorf("add files to upload: %w", err)
	}

	report, err := c.Call(ctx, "Upload.StartUpload", map[string]any{
		"uploadKey": uploadKey,
		"blocking":  blocking,
	})
	if err != nil {
		return "", nil, fmt.Errorf("start upload: %w", err)
	}

	return uploadKey, report, nil
}
