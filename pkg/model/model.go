// Package model defines the wire documents exchanged with the ThirdLight JSON
// API: the request envelope sent on every call, the result header returned on
// every non-null response, and the structures used by the Upload and Folders
// method families. These structs mirror the JSON documents the remote produces
// and consumes.
package model

// APIVersion is the protocol version stamped on every request envelope.
const APIVersion = "1.0"

// EncodingBase64 is the file payload encoding accepted by
// Upload.AddFilesToUpload.
const EncodingBase64 = "base64"

// ResultOK and ResultAPIError are the result actions the remote uses to
// report call outcomes in-band.
const (
	ResultOK       = "OK"
	ResultAPIError = "API_ERROR"
)

// Envelope is the body of every API request. SessionID is omitted until a
// session has been established; the remote rejects actions that need one.
type Envelope struct {
	Action     string         `json:"action"`
	InParams   map[string]any `json:"inParams"`
	APIVersion string         `json:"apiVersion"`
	SessionID  string         `json:"sessionId,omitempty"`
}

// Result is the status header of a response. Action is ResultOK on success;
// on ResultAPIError, API carries the server's diagnostic string.
type Result struct {
	Action string `json:"action"`
	API    string `json:"api"`
}

// UploadMetadata carries the descriptive fields attached to an uploaded file.
type UploadMetadata struct {
	Caption  string   `json:"caption"`
	Keywords []string `json:"keywords"`
}

// UploadFile is the per-file structure sent under the "upload_file" key of
// the fileData parameter of Upload.AddFilesToUpload. Data holds the whole
// file, base64 encoded.
type UploadFile struct {
	Encoding string         `json:"encoding"`
	Name     string         `json:"name"`
	Data     string         `json:"data"`
	Metadata UploadMetadata `json:"metadata"`
}

// FolderEntry is one value of the folder mapping (folder id -> metadata)
// returned by Folders.GetTopLevelFolders and Folders.GetContainersForParent.
type FolderEntry struct {
	Name               string `json:"name"`
	HasChildContainers bool   `json:"hasChildContainers"`
}

// FolderEntryFrom decodes a folder mapping value from its generic JSON form.
// Missing or mistyped fields are left at their zero values.
func FolderEntryFrom(m map[string]any) FolderEntry {
	e := FolderEntry{}
	e.Name, _ = m["name"].(string)
	e.HasChildContainers, _ = m["hasChildContainers"].(bool)
	return e
}
