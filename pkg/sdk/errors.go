package sdk

import (
	"fmt"

	"github.com/rethought/thirdlight-sdk-go/pkg/response"
)

// UnknownFolderError reports a folder path absent from the loaded folder
// tree. Path is in its normalized form, with a trailing slash.
type UnknownFolderError struct {
	Path string
}

func (e *UnknownFolderError) Error() string {
	return fmt.Sprintf("folder %q not found in folder tree", e.Path)
}

// UploadFailedError reports a blocking upload whose start report contains no
// succeeded entry. Report carries the full start-upload response for
// diagnostics.
type UploadFailedError struct {
	Source string
	Report *response.Wrapped
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("error uploading %s, returned message is %s", e.Source, e.Report)
}
