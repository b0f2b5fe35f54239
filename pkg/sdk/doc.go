// Package sdk provides the high-level entry point for interacting with a
// ThirdLight Image Management System site over its JSON API.
//
// The client maps any documented remote method onto a single generic call
// surface, wraps responses for convenient nested access, and layers two
// stateful workflows on top: image upload and folder-path resolution.
//
// # Quick Start
//
// Create a client with configuration, connect, and call methods:
//
//	import (
//		"context"
//
//		"github.com/rethought/thirdlight-sdk-go/pkg/config"
//		"github.com/rethought/thirdlight-sdk-go/pkg/sdk"
//	)
//
//	func main() {
//		cfg := &config.Config{
//			AccountURL: "http://myaccount.thirdlight.com",
//			APIKey:     "YOUR_API_KEY",
//		}
//
//		client, err := sdk.New(cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		ctx := context.Background()
//		if err := client.Connect(ctx); err != nil {
//			log.Fatal(err)
//		}
//
//		resp, err := client.Call(ctx, "Files.GetAssetDetails", map[string]any{"assetId": 1234})
//		if err != nil {
//			log.Fatal(err)
//		}
//		url, _ := resp.GetString("panoramicUrl")
//		fmt.Println(url)
//	}
//
// # Calling remote methods
//
// If the ThirdLight documentation lists a method Files.GetAssetDetails, call
// it directly:
//
//	resp, err := client.Call(ctx, "Files.GetAssetDetails", map[string]any{"assetId": 1234})
//
// or resolve it from its Module_Method spelling, which is validated against
// the naming convention first:
//
//	details, err := client.Method("Files_GetAssetDetails")
//	resp, err := details(ctx, map[string]any{"assetId": 1234})
//
// All named parameters go into the request's inParams object. Responses come
// back wrapped (see the response package): lookups fall through to outParams,
// so resp.GetString("panoramicUrl") finds outParams.panoramicUrl.
//
// # Uploads
//
// UploadImage resolves the destination folder, creates an upload session,
// attaches the base64-encoded file, starts the upload, and blocks until the
// remote has processed it:
//
//	result, err := client.UploadImage(ctx, "/tmp/IMG_1572.JPG", sdk.UploadOptions{
//		FolderPath: "/beaches/broome",
//		Caption:    "Cable Beach",
//		Keywords:   []string{"beach", "sunset"},
//	})
//
// UploadImageAsync returns the uploadKey immediately; poll UploadProgress and
// finish with CompleteUpload.
//
// # Folder resolution
//
// Most operations, uploads included, address folders by id. ResolveFolderID
// turns a path into an id using a client-owned cache of the full folder tree,
// loaded lazily on first use:
//
//	id, err := client.ResolveFolderID(ctx, "/beaches/broome", false)
//
// Loading walks the whole remote hierarchy, so do it infrequently; use
// InvalidateFolderCache or the forceReload flag after reorganizing folders.
//
// # Error Handling
//
// Failures are typed and propagate synchronously, never retried:
//
//   - api.RemoteAPIError: the server reported API_ERROR in its result header
//   - api.TransportError: network or decoding failure before any server verdict
//   - api.UnknownMethodError: a name rejected by the Module_Method convention
//   - response.MissingKeyError: a key absent from a wrapped response
//   - sdk.UnknownFolderError: a path absent from the loaded folder tree
//   - sdk.UploadFailedError: a blocking upload whose report shows no success
//
// Match with errors.As:
//
//	var apiErr *api.RemoteAPIError
//	if errors.As(err, &apiErr) {
//		log.Printf("remote rejected the call: %s", apiErr.Diagnostic)
//	}
//
// # Thread Safety
//
// A Client is safe for concurrent use. The session key and the folder cache
// are synchronized, and concurrent folder-tree loads collapse into a single
// remote walk.
package sdk
