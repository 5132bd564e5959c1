package shop_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"price_tracker/internal/domain/entity"
	"price_tracker/internal/infrastructure/shop"
)

const detailsPage = `<html><head>
<script type="text/x-magento-init">{"*":{"Magento_Ui/js/core/app":{}}}</script>
<script type="text/x-magento-init">{"*":{"dataDetail":{"name":"Elden Ring PC","price":%s,"currency":"USD"}}}</script>
</head><body><h1>Elden Ring PC</h1></body></html>`

func pages(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/numeric", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		fmt.Fprintf(w, detailsPage, `39.99`)
	})
	mux.HandleFunc("/string", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, detailsPage, `"24.5"`)
	})
	mux.HandleFunc("/bad-price", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, detailsPage, `"soon"`)
	})
	mux.HandleFunc("/no-details", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><script type="text/x-magento-init">{"*":{}}</script></html>`)
	})
	mux.HandleFunc("/two-details", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, detailsPage+detailsPage, `1`, `2`)
	})
	mux.HandleFunc("/broken-json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<script type="text/x-magento-init">{"*":{"dataDetail":</script>`)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, detailsPage, `1`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestClient_Details(t *testing.T) {
	rq := require.New(t)
	srv, _ := pages(t)

	client := shop.NewClient(srv.Client(), shop.Options{})

	testCases := []struct {
		path string
		want entity.Product
	}{
		{path: "/numeric", want: entity.Product{Name: "Elden Ring PC", Price: 39.99, Currency: "USD"}},
		{path: "/string", want: entity.Product{Name: "Elden Ring PC", Price: 24.5, Currency: "USD"}},
		{path: "/bad-price"},
		{path: "/no-details"},
		{path: "/two-details"},
		{path: "/broken-json"},
		{path: "/gone"},
		{path: "/missing"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(*testing.T) {
			got := client.Details(context.Background(), srv.URL+tc.path)

			rq.Equal(tc.want, got)
			rq.Equal(tc.want.Price == 0, got.Failed())
		})
	}
}

func TestClient_NameCached(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	srv, hits := pages(t)

	client := shop.NewClient(srv.Client(), shop.Options{})

	name, err := client.Name(ctx, srv.URL+"/numeric")
	rq.NoError(err)
	rq.Equal("Elden Ring PC", name)

	name, err = client.Name(ctx, srv.URL+"/numeric")
	rq.NoError(err)
	rq.Equal("Elden Ring PC", name)
	rq.Equal(int32(1), hits.Load())

	_, err = client.Name(ctx, srv.URL+"/no-details")
	rq.Error(err)

	_, err = client.Name(ctx, srv.URL+"/gone")
	rq.Error(err)
}

func TestClient_UserAgent(t *testing.T) {
	rq := require.New(t)

	var got string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
		fmt.Fprintf(w, detailsPage, `1`)
	}))
	defer srv.Close()

	shop.NewClient(srv.Client(), shop.Options{UserAgent: "tracker-test/1.0"}).Details(context.Background(), srv.URL)
	rq.Equal("tracker-test/1.0", got)

	shop.NewClient(srv.Client(), shop.Options{}).Details(context.Background(), srv.URL)
	rq.Equal(shop.DefaultUserAgent, got)
}

func TestValidator_Validate(t *testing.T) {
	rq := require.New(t)
	srv, _ := pages(t)

	validator := shop.NewValidator(srv.Client(), srv.URL+"/", shop.Options{})

	testCases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "valid", raw: srv.URL + "/numeric", want: srv.URL + "/numeric", ok: true},
		{name: "padded", raw: "  " + srv.URL + "/numeric\t", want: srv.URL + "/numeric", ok: true},
		{name: "empty", raw: ""},
		{name: "two tokens", raw: srv.URL + "/numeric " + srv.URL + "/string"},
		{name: "foreign prefix", raw: "https://example.com/numeric"},
		{name: "not found", raw: srv.URL + "/gone"},
		{name: "unknown page", raw: srv.URL + "/missing"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got, ok := validator.Validate(context.Background(), tc.raw)

			rq.Equal(tc.ok, ok)
			rq.Equal(tc.want, got)
		})
	}
}

func TestValidator_DefaultPrefix(t *testing.T) {
	rq := require.New(t)

	validator := shop.NewValidator(http.DefaultClient, "", shop.Options{})

	_, ok := validator.Validate(context.Background(), "http://www.cdkeys.com/game")
	rq.False(ok)
}
