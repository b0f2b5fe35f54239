package sdk

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rethought/thirdlight-sdk-go/internal/testutil/imsmock"
	"github.com/rethought/thirdlight-sdk-go/pkg/model"
)

func writeImage(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func uploadServer(t *testing.T, succeeded bool) *imsmock.Server {
	srv := imsmock.New(t)
	srv.Respond("Upload.CreateUpload", imsmock.OK(map[string]any{"uploadKey": "UK1"}))
	srv.Respond("Upload.AddFilesToUpload", nil) // async add returns a null body
	if succeeded {
		srv.Respond("Upload.StartUpload", imsmock.OK(map[string]any{
			"succeeded": map[string]any{
				"upload_file": map[string]any{"clientRef": "REF1"},
			},
		}))
	} else {
		srv.Respond("Upload.StartUpload", imsmock.OK(map[string]any{
			"failed": map[string]any{"upload_file": "checksum mismatch"},
		}))
	}
	srv.Respond("Upload.CompleteUpload", imsmock.OK(map[string]any{}))
	return srv
}

func TestUploadImage_Blocking(t *testing.T) {
	srv := uploadServer(t, true)
	client := newTestClient(t, srv)
	content := []byte("not really a jpeg")
	source := writeImage(t, "IMG_1572.JPG", content)

	result, err := client.UploadImage(context.Background(), source, UploadOptions{
		FolderID: "7",
		Caption:  "Cable Beach",
		Keywords: []string{"beach", "sunset"},
	})
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}

	clientRef, err := result.GetString("clientRef")
	if err != nil || clientRef != "REF1" {
		t.Fatalf("clientRef = %q, %v, want REF1", clientRef, err)
	}

	requests := srv.Requests()
	actions := make([]string, len(requests))
	for i, req := range requests {
		actions[i] = req.Action
	}
	want := []string{"Upload.CreateUpload", "Upload.AddFilesToUpload", "Upload.StartUpload", "Upload.CompleteUpload"}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("actions = %v, want %v", actions, want)
		}
	}

	create := requests[0]
	params, _ := create.InParams["params"].(map[string]any)
	if params["destination"] != "7" || params["synchronous"] != false || params["lifetime"] != float64(60) {
		t.Fatalf("create params = %v", params)
	}

	add := requests[1]
	if add.InParams["uploadKey"] != "UK1" {
		t.Fatalf("add uploadKey = %v", add.InParams["uploadKey"])
	}
	fileData, _ := add.InParams["fileData"].(map[string]any)
	uploadFile, _ := fileData["upload_file"].(map[string]any)
	if uploadFile["encoding"] != model.EncodingBase64 {
		t.Fatalf("encoding = %v", uploadFile["encoding"])
	}
	if uploadFile["name"] != "IMG_1572.JPG" {
		t.Fatalf("name = %v", uploadFile["name"])
	}
	if uploadFile["data"] != base64.StdEncoding.EncodeToString(content) {
		t.Fatalf("payload does not round-trip: %v", uploadFile["data"])
	}
	metadata, _ := uploadFile["metadata"].(map[string]any)
	if metadata["caption"] != "Cable Beach" {
		t.Fatalf("caption = %v", metadata["caption"])
	}

	start := requests[2]
	if start.InParams["blocking"] != true {
		t.Fatalf("start blocking = %v", start.InParams["blocking"])
	}
}

func TestUploadImage_ReportWithoutSuccess(t *testing.T) {
	srv := uploadServer(t, false)
	client := newTestClient(t, srv)
	source := writeImage(t, "IMG_1572.JPG", []byte("payload"))

	_, err := client.UploadImage(context.Background(), source, UploadOptions{FolderID: "7"})
	var failed *UploadFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want UploadFailedError", err)
	}
	if failed.Source != source {
		t.Fatalf("source = %q, want %q", failed.Source, source)
	}
	if failed.Report == nil || !failed.Report.Has("failed") {
		t.Fatalf("report = %v, want the full start-upload report", failed.Report)
	}
}

func TestUploadImage_ResolvesFolderPath(t *testing.T) {
	srv := uploadServer(t, true)
	srv.Respond("Folders.GetTopLevelFolders", imsmock.OK(map[string]any{
		"7": folderEntry("beaches", false),
	}))
	client := newTestClient(t, srv)
	source := writeImage(t, "IMG_1572.JPG", []byte("payload"))

	if _, err := client.UploadImage(context.Background(), source, UploadOptions{
		FolderPath: "/beaches",
	}); err != nil {
		t.Fatalf("UploadImage: %v", err)
	}

	// the tree walk runs first, then the upload legs address the resolved id
	requests := srv.Requests()
	if requests[0].Action != "Folders.GetTopLevelFolders" {
		t.Fatalf("first action = %q", requests[0].Action)
	}
	params, _ := requests[1].InParams["params"].(map[string]any)
	if params["destination"] != "7" {
		t.Fatalf("destination = %v, want the resolved folder id", params["destination"])
	}
}

func TestUploadImage_MissingSource(t *testing.T) {
	srv := uploadServer(t, true)
	client := newTestClient(t, srv)

	_, err := client.UploadImage(context.Background(), filepath.Join(t.TempDir(), "absent.jpg"), UploadOptions{FolderID: "7"})
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}
	// the session was created before the read failed; nothing else ran
	if got := len(srv.Requests()); got != 1 {
		t.Fatalf("remote calls = %d, want 1", got)
	}
}

func TestUploadImageAsync_ReturnsUploadKey(t *testing.T) {
	srv := uploadServer(t, true)
	client := newTestClient(t, srv)
	source := writeImage(t, "IMG_1572.JPG", []byte("payload"))

	uploadKey, err := client.UploadImageAsync(context.Background(), source, UploadOptions{FolderID: "7"})
	if err != nil {
		t.Fatalf("UploadImageAsync: %v", err)
	}
	if uploadKey != "UK1" {
		t.Fatalf("uploadKey = %q, want UK1", uploadKey)
	}

	requests := srv.Requests()
	last := requests[len(requests)-1]
	if last.Action != "Upload.StartUpload" {
		t.Fatalf("last action = %q, async flow must not complete the upload", last.Action)
	}
	if last.InParams["blocking"] != false {
		t.Fatalf("start blocking = %v, want false", last.InParams["blocking"])
	}
}

func TestUploadProgressAndComplete(t *testing.T) {
	srv := imsmock.New(t)
	srv.Respond("Upload.GetUploadProgress", imsmock.OK(map[string]any{"state": "processing"}))
	srv.Respond("Upload.CompleteUpload", imsmock.OK(map[string]any{}))
	client := newTestClient(t, srv)

	ctx := context.Background()
	progress, err := client.UploadProgress(ctx, "UK1")
	if err != nil {
		t.Fatalf("UploadProgress: %v", err)
	}
	state, err := progress.GetString("state")
	if err != nil || state != "processing" {
		t.Fatalf("state = %q, %v", state, err)
	}

	if err := client.CompleteUpload(ctx, "UK1"); err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	if got := srv.LastRequest().InParams["uploadKey"]; got != "UK1" {
		t.Fatalf("complete uploadKey = %v", got)
	}
}
