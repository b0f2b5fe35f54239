// Package api implements the wire layer of the ThirdLight client: the
// Module_Method name resolver and the request executor that posts JSON
// envelopes to a site's api.json.tlx endpoint and classifies the outcome.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rethought/thirdlight-sdk-go/pkg/config"
	"github.com/rethought/thirdlight-sdk-go/pkg/model"
	"github.com/rethought/thirdlight-sdk-go/pkg/response"
)

// Doer abstracts the HTTP client so tests can intercept requests without a
// network.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SessionFunc supplies the current session key. It returns "" before a
// session has been established, in which case the envelope omits sessionId.
type SessionFunc func() string

// Executor performs remote calls against one API endpoint. All calls use
// POST: the ThirdLight API is not resource oriented, and POSTing every time
// supports payloads of any size, which file uploads need.
type Executor struct {
	url  string
	http Doer

	session SessionFunc

	requestTimeout time.Duration
	uploadTimeout  time.Duration
}

// NewExecutor builds an executor for apiURL with an HTTP client derived from
// the given timeouts. session may be nil for unauthenticated use.
func NewExecutor(apiURL string, timeouts config.Timeouts, session SessionFunc) *Executor {
	timeouts = timeouts.WithDefaults()
	return &Executor{
		url: apiURL,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: timeouts.Dial}).DialContext,
			},
		},
		session:        session,
		requestTimeout: timeouts.Request,
		uploadTimeout:  timeouts.Upload,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Tests use this to
// substitute a transport double.
func (e *Executor) SetHTTPClient(d Doer) {
	e.http = d
}

// Do executes one remote call: it builds the request envelope, posts it, and
// decodes the JSON body. A null or empty body is passed through as a nil
// response without error; some methods, such as adding files to an
// asynchronous upload, legitimately return nothing.
//
// When ctx carries no deadline, one is applied from the configured timeouts;
// calls carrying file data get the longer upload deadline.
func (e *Executor) Do(ctx context.Context, action string, inParams map[string]any) (*response.Wrapped, error) {
	if inParams == nil {
		inParams = map[string]any{}
	}

	env := model.Envelope{
		Action:     action,
		InParams:   inParams,
		APIVersion: model.APIVersion,
	}
	if e.session != nil {
		env.SessionID = e.session()
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope for %s: %w", action, err)
	}

	requestID := uuid.NewString()
	logDispatch(requestID, action, inParams, len(body))

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeoutFor(action, inParams))
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request for " + action, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post " + action, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response for " + action, Err: err}
	}

	zap.L().Debug("response received",
		zap.String("request_id", requestID),
		zap.String("action", action),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_bytes", len(raw)))

	return decode(action, raw)
}

// timeoutFor picks the deadline for one call. The upload legs get the longer
// upload timeout: attaching file data carries the base64 payload, and a
// blocking StartUpload waits server-side while that payload is processed.
func (e *Executor) timeoutFor(action string, inParams map[string]any) time.Duration {
	if _, hasFileData := inParams["fileData"]; hasFileData {
		return e.uploadTimeout
	}
	if action == "Upload.StartUpload" {
		return e.uploadTimeout
	}
	return e.requestTimeout
}

// decode interprets a raw response body. The remote reports failures in-band
// through the result header, so the HTTP status code is not consulted.
func decode(action string, raw []byte) (*response.Wrapped, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &TransportError{Op: "decode response for " + action, Err: err}
	}
	if decoded == nil {
		return nil, nil
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &TransportError{
			Op:  "decode response for " + action,
			Err: fmt.Errorf("expected JSON object, got %T", decoded),
		}
	}

	var header struct {
		Result model.Result `json:"result"`
	}
	_ = json.Unmarshal(raw, &header)
	if header.Result.Action == model.ResultAPIError {
		return nil, &RemoteAPIError{Diagnostic: header.Result.API}
	}

	return response.Wrap(obj), nil
}

// logDispatch emits one event per request. Calls carrying file data are
// summarized by file name and encoded size rather than their parameters.
func logDispatch(requestID, action string, inParams map[string]any, bodyLen int) {
	if fd, ok := inParams["fileData"].(map[string]any); ok {
		var name string
		var encodedBytes int
		switch uf := fd["upload_file"].(type) {
		case model.UploadFile:
			name = uf.Name
			encodedBytes = len(uf.Data)
		case map[string]any:
			// callers going through the generic Call surface pass the
			// already-decoded JSON shape
			name, _ = uf["name"].(string)
			if data, ok := uf["data"].(string); ok {
				encodedBytes = len(data)
			}
		}
		zap.L().Info("executing file upload",
			zap.String("request_id", requestID),
			zap.String("action", action),
			zap.String("file", name),
			zap.Int("encoded_bytes", encodedBytes))
		return
	}

	zap.L().Info("executing API request",
		zap.String("request_id", requestID),
		zap.String("action", action),
		zap.Int("params", len(inParams)),
		zap.Int("body_bytes", bodyLen))
}
