package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"price_tracker/internal/domain/service/tracking"
	"price_tracker/internal/infrastructure/persistence"
	"price_tracker/internal/server"
	"price_tracker/pkg/rest"
	"price_tracker/pkg/tests"
)

const (
	urlAlpha = "https://www.cdkeys.com/alpha-pc"
	urlBeta  = "https://www.cdkeys.com/beta-pc"
)

type prefixValidator struct{}

func (prefixValidator) Validate(_ context.Context, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	return raw, strings.HasPrefix(raw, "https://www.cdkeys.com/") && !strings.ContainsAny(raw, " \t\n")
}

type staticNames map[string]string

func (s staticNames) Name(_ context.Context, url string) (string, error) {
	name, ok := s[url]
	if !ok {
		return "", io.ErrUnexpectedEOF
	}

	return name, nil
}

func newTestServer(t *testing.T) tests.APIClient {
	t.Helper()

	store := tracking.NewStore(
		persistence.NewMemoryBlobs(),
		prefixValidator{},
		staticNames{urlAlpha: "Alpha", urlBeta: "Beta"},
	)
	require.NoError(t, store.Load(context.Background()))

	svc := tracking.NewService(store, time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(server.NewRouter(server.NewServer(server.NewItemsServer(svc)), log, 0))
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func TestItemsAPI(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestServer(t)

	var next rest.NextUpdate

	resp, err := api.Get(ctx, "/v1/next-update", nil, &next, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.False(next.Tracked)

	var ref rest.ItemRef

	resp, err = api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: urlBeta}, &ref, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal("Beta", ref.Name)

	resp, err = api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: urlAlpha}, &ref, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)

	var items []rest.Item

	resp, err = api.Get(ctx, "/v1/items", nil, &items, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(items, 2)
	rq.Equal("Alpha", items[0].Name)
	rq.False(items[0].Priced)

	resp, err = api.Get(ctx, "/v1/next-update", nil, &next, nil)
	rq.NoError(err)
	rq.True(next.Tracked)
	rq.Positive(next.SecondsLeft)
	rq.NotNil(next.At)

	resp, err = api.DeleteWithBody(ctx, "/v1/items", nil, rest.ItemRequest{URL: urlAlpha}, &ref, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Alpha", ref.Name)
	rq.NotEmpty(resp.Header.Get("X-Trace-Id"))
}

func TestItemsAPI_PaddedURL(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestServer(t)
	padded := "  " + urlAlpha + "\n"

	var ref rest.ItemRef

	resp, err := api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: padded}, &ref, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal(rest.ItemRef{URL: urlAlpha, Name: "Alpha"}, ref)

	ref = rest.ItemRef{}

	resp, err = api.DeleteWithBody(ctx, "/v1/items", nil, rest.ItemRequest{URL: padded}, &ref, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(rest.ItemRef{URL: urlAlpha, Name: "Alpha"}, ref)

	var items []rest.Item

	_, err = api.Get(ctx, "/v1/items", nil, &items, nil)
	rq.NoError(err)
	rq.Empty(items)
}

func TestItemsAPI_Errors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newTestServer(t)

	_, err := api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: urlAlpha}, nil, nil)
	rq.NoError(err)

	testCases := []struct {
		name       string
		do         func(errDest *rest.Error) (*http.Response, error)
		wantStatus int
		wantCode   rest.ErrorCode
		wantMsg    string
	}{
		{
			name: "invalid url",
			do: func(e *rest.Error) (*http.Response, error) {
				return api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: "https://example.com/x"}, nil, e)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidURL",
			wantMsg:    "invalid url",
		},
		{
			name: "already tracked",
			do: func(e *rest.Error) (*http.Response, error) {
				return api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: urlAlpha}, nil, e)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "ItemAlreadyTracked",
			wantMsg:    "Alpha have already tracked",
		},
		{
			name: "not tracked",
			do: func(e *rest.Error) (*http.Response, error) {
				return api.DeleteWithBody(ctx, "/v1/items", nil, rest.ItemRequest{URL: urlBeta}, nil, e)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "ItemNotTracked",
			wantMsg:    urlBeta + " is not in tracked items",
		},
		{
			name: "name unavailable",
			do: func(e *rest.Error) (*http.Response, error) {
				return api.Post(ctx, "/v1/items", nil, rest.ItemRequest{URL: "https://www.cdkeys.com/gamma"}, nil, e)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "ItemNameUnavailable",
		},
		{
			name: "missing url",
			do: func(e *rest.Error) (*http.Response, error) {
				return api.PostJSON(ctx, "/v1/items", nil, `{}`, nil, e)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ValidationError",
		},
		{
			name: "broken json",
			do: func(e *rest.Error) (*http.Response, error) {
				return api.PostJSON(ctx, "/v1/items", nil, `{"url":`, nil, e)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ValidationError",
			wantMsg:    "Invalid JSON",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var apiErr rest.Error

			resp, err := tc.do(&apiErr)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)
			rq.Equal(tc.wantCode, apiErr.Code)
			rq.NotEmpty(apiErr.SupportID)

			if tc.wantMsg != "" {
				rq.Equal(tc.wantMsg, apiErr.Message)
			}
		})
	}
}
