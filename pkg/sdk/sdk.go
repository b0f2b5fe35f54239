package sdk

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rethought/thirdlight-sdk-go/pkg/api"
	"github.com/rethought/thirdlight-sdk-go/pkg/config"
	"github.com/rethought/thirdlight-sdk-go/pkg/response"
)

// APIEndpoint is the fixed path of the JSON API on every ThirdLight site.
const APIEndpoint = "api.json.tlx"

// CallFunc is a remote method bound to a client, produced by Method.
type CallFunc func(ctx context.Context, inParams map[string]any) (*response.Wrapped, error)

// ThirdLight is the public interface of the IMS client: session management,
// generic remote-method invocation, and the convenience workflows layered on
// top of it (image upload and folder-path resolution).
type ThirdLight interface {
	// Connect authenticates with the configured API key and stores the
	// returned session key for subsequent calls.
	Connect(ctx context.Context) error
	// Call invokes one remote action ("Module.Method" form) with the given
	// input parameters and returns the wrapped response. Any method the
	// site exposes can be called this way without a per-method wrapper.
	Call(ctx context.Context, action string, inParams map[string]any) (*response.Wrapped, error)
	// Method resolves a Module_Method style name into a call bound to this
	// client, or fails when the name does not follow the convention.
	Method(name string) (CallFunc, error)
	// UploadImage uploads the image at source and blocks until the remote
	// has processed it, returning the per-file upload result.
	UploadImage(ctx context.Context, source string, opts UploadOptions) (*response.Wrapped, error)
	// UploadImageAsync starts an upload and returns its uploadKey without
	// waiting. Callers poll UploadProgress and finish with CompleteUpload.
	UploadImageAsync(ctx context.Context, source string, opts UploadOptions) (string, error)
	// UploadProgress reports the state of an asynchronous upload.
	UploadProgress(ctx context.Context, uploadKey string) (*response.Wrapped, error)
	// CompleteUpload finalizes an upload session.
	CompleteUpload(ctx context.Context, uploadKey string) error
	// LoadFolderTree walks the remote folder hierarchy and replaces the
	// client's path cache, returning the path -> folder id mapping.
	LoadFolderTree(ctx context.Context) (map[string]string, error)
	// ResolveFolderID resolves a UNIX-style folder path to a folder id,
	// loading the tree on first use or when forceReload is set.
	ResolveFolderID(ctx context.Context, path string, forceReload bool) (string, error)
	// InvalidateFolderCache drops the cached folder tree.
	InvalidateFolderCache()
}

var _ ThirdLight = (*Client)(nil)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Client is the concrete ThirdLight implementation. It holds the resolved
// API URL, the executor posting to it, the session key obtained by Connect,
// and the folder-path cache. A Client is safe for concurrent use.
type Client struct {
	cfg    *config.Config
	apiURL string
	exec   *api.Executor

	mu         sync.RWMutex
	sessionKey string
	folderTree map[string]string

	loadGroup singleflight.Group
}

// New constructs a client for the ThirdLight site named in cfg. The API URL
// is cfg.AccountURL joined with APIEndpoint; a trailing slash on the account
// URL is tolerated. The configuration is validated and its timeouts
// defaulted before use.
func New(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		apiURL: strings.TrimRight(cfg.AccountURL, "/") + "/" + APIEndpoint,
	}
	c.exec = api.NewExecutor(c.apiURL, cfg.Timeouts, c.currentSession)

	if cfg.Debug {
		zap.L().Debug("client initialized", zap.String("api_url", c.apiURL))
	}

	return c, nil
}

// APIURL returns the resolved endpoint URL the client posts to.
func (c *Client) APIURL() string {
	return c.apiURL
}

// Executor exposes the underlying request executor for advanced use, such as
// substituting the HTTP transport.
func (c *Client) Executor() *api.Executor {
	return c.exec
}

func (c *Client) currentSession() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionKey
}

// Connect authenticates with the API key and stores the returned session key.
// Calls made before Connect are sent without a sessionId; the remote decides
// whether the requested action needs one.
func (c *Client) Connect(ctx context.Context) error {
	resp, err := c.Call(ctx, "Core.LoginWithKey", map[string]any{"apikey": c.cfg.APIKey})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if resp == nil {
		return fmt.Errorf("login failed: empty response")
	}

	sessionID, err := resp.GetString("sessionId")
	if err != nil {
		return fmt.Errorf("login response: %w", err)
	}

	c.mu.Lock()
	c.sessionKey = sessionID
	c.mu.Unlock()

	zap.L().Info("session established")
	return nil
}

// Call invokes one remote action with the given input parameters. Action is
// the dotted "Module.Method" identifier from the ThirdLight documentation.
func (c *Client) Call(ctx context.Context, action string, inParams map[string]any) (*response.Wrapped, error) {
	return c.exec.Do(ctx, action, inParams)
}

// Method resolves a Module_Method style name into a remote call bound to this
// client:
//
//	details, err := client.Method("Files_GetAssetDetails")
//	if err != nil { ... }
//	resp, err := details(ctx, map[string]any{"assetId": 1234})
//
// Names that do not follow the convention yield an api.UnknownMethodError.
func (c *Client) Method(name string) (CallFunc, error) {
	action, err := api.ActionForMethod(name)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, inParams map[string]any) (*response.Wrapped, error) {
		return c.Call(ctx, action, inParams)
	}, nil
}
