package shop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cast"

	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/logx"
)

const (
	detailsSelector = `script[type="text/x-magento-init"]`
	detailsMarker   = "dataDetail"
)

var (
	errUnexpectedStatus = errors.New("unexpected status")
	errNoDetails        = errors.New("no product details on page")
	errManyDetails      = errors.New("more than one product details block on page")
	errBadDetails       = errors.New("malformed product details")
)

// pageDetails is the magento-init payload: {"*": {"dataDetail": {...}}}.
type pageDetails struct {
	Any struct {
		DataDetail *struct {
			Name     string `json:"name"`
			Price    any    `json:"price"`
			Currency string `json:"currency"`
		} `json:"dataDetail"`
	} `json:"*"`
}

// Client loads product details from shop pages.
type Client struct {
	http      *http.Client
	userAgent string
	names     *cache.Cache
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	ttl := opts.NameCacheTTL
	if ttl <= 0 {
		ttl = DefaultNameCacheTTL
	}

	return &Client{
		http:      httpClient,
		userAgent: opts.UserAgent,
		names:     cache.New(ttl, 2*ttl),
	}
}

// Details returns what the page currently says about the product. Any
// failure is logged and reported as the zero Product.
func (c *Client) Details(ctx context.Context, url string) entity.Product {
	product, err := c.load(ctx, url)
	if err != nil {
		logger(ctx).Error("failed to load product details", slog.String(logx.FieldURL, url), logx.Error(err))
		return entity.Product{}
	}

	return product
}

// Name returns the product name, from the cache when the page was read
// recently.
func (c *Client) Name(ctx context.Context, url string) (string, error) {
	if name, ok := c.names.Get(url); ok {
		return name.(string), nil //nolint:forcetypeassert // only strings are stored
	}

	product, err := c.load(ctx, url)
	if err != nil {
		return "", err
	}

	return product.Name, nil
}

func (c *Client) load(ctx context.Context, url string) (entity.Product, error) {
	logger(ctx).Debug("loading product details", slog.String(logx.FieldURL, url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return entity.Product{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := c.http.Do(newRequest(req, c.userAgent))
	if err != nil {
		return entity.Product{}, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return entity.Product{}, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
	}

	product, err := parseProduct(resp.Body)
	if err != nil {
		return entity.Product{}, err
	}

	c.names.SetDefault(url, product.Name)

	return product, nil
}

func parseProduct(r io.Reader) (entity.Product, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return entity.Product{}, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	blocks := doc.Find(detailsSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), detailsMarker)
	})

	switch blocks.Length() {
	case 0:
		return entity.Product{}, errNoDetails
	case 1:
	default:
		return entity.Product{}, errManyDetails
	}

	var details pageDetails
	if err := json.UnmarshalFromString(blocks.Text(), &details); err != nil {
		return entity.Product{}, fmt.Errorf("%w: %w", errBadDetails, err)
	}

	detail := details.Any.DataDetail
	if detail == nil {
		return entity.Product{}, fmt.Errorf("%w: no dataDetail", errBadDetails)
	}

	price, err := cast.ToFloat64E(detail.Price)
	if err != nil {
		return entity.Product{}, fmt.Errorf("%w: price: %w", errBadDetails, err)
	}

	return entity.Product{
		Name:     detail.Name,
		Price:    price,
		Currency: detail.Currency,
	}, nil
}
