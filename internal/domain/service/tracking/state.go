package tracking

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"price_tracker/internal/domain"
	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	itemsKey      = "tracked_items"
	lastUpdateKey = "last_update"
)

// itemRecord is the persisted shape of one tracked item. Pointers let the
// decoder tell a missing field from a zero value.
type itemRecord struct {
	URL          string   `json:"url"`
	Name         *string  `json:"name"`
	LastPrice    *float64 `json:"last_price"`
	LastCurrency *string  `json:"last_currency"`
}

func encodeItems(items []entity.TrackedItem) ([]byte, error) {
	records := lo.Map(items, func(item entity.TrackedItem, _ int) itemRecord {
		return itemRecord{
			URL:          item.URL,
			Name:         &item.Name,
			LastPrice:    &item.LastPrice,
			LastCurrency: &item.LastCurrency,
		}
	})

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeItems(data []byte) ([]*entity.TrackedItem, error) {
	var records *[]itemRecord

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, corruptState(itemsKey, err)
	}

	if records == nil {
		return nil, corruptState(itemsKey, fmt.Errorf("null document"))
	}

	items := make([]*entity.TrackedItem, 0, len(*records))
	seen := make(map[string]struct{}, len(*records))

	for _, r := range *records {
		if r.URL == "" || r.Name == nil || r.LastPrice == nil || r.LastCurrency == nil {
			return nil, corruptState(itemsKey, fmt.Errorf("incomplete item %q", r.URL))
		}

		if _, ok := seen[r.URL]; ok {
			return nil, corruptState(itemsKey, fmt.Errorf("duplicate item %q", r.URL))
		}
		seen[r.URL] = struct{}{}

		items = append(items, &entity.TrackedItem{
			URL:          r.URL,
			Name:         *r.Name,
			LastPrice:    *r.LastPrice,
			LastCurrency: *r.LastCurrency,
		})
	}

	return items, nil
}

func encodeTimestamp(t time.Time) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

func decodeTimestamp(data []byte) (time.Time, error) {
	var t *time.Time

	if err := json.Unmarshal(data, &t); err != nil {
		return time.Time{}, corruptState(lastUpdateKey, err)
	}

	if t == nil {
		return time.Time{}, corruptState(lastUpdateKey, fmt.Errorf("null document"))
	}

	return *t, nil
}

func corruptState(key string, err error) error {
	return domain.WrapError(err, errcodes.CorruptState, fmt.Sprintf("persisted %s is corrupt", key))
}
