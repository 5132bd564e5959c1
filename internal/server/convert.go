package server

import (
	"price_tracker/internal/domain/entity"
	"price_tracker/pkg/rest"
)

func newRESTItem(item entity.TrackedItem, _ int) rest.Item {
	return rest.Item{
		URL:          item.URL,
		Name:         item.Name,
		LastPrice:    item.LastPrice,
		LastCurrency: item.LastCurrency,
		Priced:       item.Priced(),
	}
}
