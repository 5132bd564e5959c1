package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// APIClient talks JSON to the control API in tests. Successful bodies decode
// into dest, everything else into errDest.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewAPIClient(baseURL string, httpClient *http.Client) APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return APIClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        slog.Default().With(slog.String("client", "api-test")),
	}
}

func (a APIClient) Get(ctx context.Context, endpoint string, headers http.Header, dest, errDest any) (*http.Response, error) {
	return a.do(ctx, http.MethodGet, endpoint, headers, nil, dest, errDest)
}

func (a APIClient) Post(ctx context.Context, endpoint string, headers http.Header, request, dest, errDest any) (*http.Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.do(ctx, http.MethodPost, endpoint, headers, body, dest, errDest)
}

// PostJSON sends requestJSON as is, for payloads a struct cannot express.
func (a APIClient) PostJSON(ctx context.Context, endpoint string, headers http.Header, requestJSON string, dest, errDest any) (*http.Response, error) {
	return a.do(ctx, http.MethodPost, endpoint, headers, []byte(requestJSON), dest, errDest)
}

func (a APIClient) DeleteWithBody(ctx context.Context, endpoint string, headers http.Header, request, dest, errDest any) (*http.Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return a.do(ctx, http.MethodDelete, endpoint, headers, body, dest, errDest)
}

func (a APIClient) do(
	ctx context.Context,
	method string,
	endpoint string,
	headers http.Header,
	body []byte,
	dest any,
	errDest any,
) (*http.Response, error) {
	var payload io.Reader = http.NoBody
	if body != nil {
		payload = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	a.log.Debug("api call",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(raw)),
	)

	if err := decode(resp.StatusCode, raw, dest, errDest); err != nil {
		return nil, err
	}

	return resp, nil
}

func decode(status int, raw []byte, dest, errDest any) error {
	target, kind := errDest, "error"
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		target, kind = dest, "success"
	}

	if target == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("json.Unmarshal(%s body): %w", kind, err)
	}

	return nil
}
