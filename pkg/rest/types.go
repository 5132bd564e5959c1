// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Item Отслеживаемый товар
type Item struct {
	URL          string  `json:"url"`
	Name         string  `json:"name"`
	LastPrice    float64 `json:"lastPrice"`
	LastCurrency string  `json:"lastCurrency"`

	// Priced false, пока цена ни разу не была получена
	Priced bool `json:"priced"`
}

// ItemRequest Тело запросов на добавление и удаление товара
type ItemRequest struct {
	URL string `json:"url" validate:"required"`
}

// ItemRef Результат добавления или удаления товара
type ItemRef struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// NextUpdate Время до следующей рассылки неизменившихся цен
type NextUpdate struct {
	Tracked     bool       `json:"tracked"`
	SecondsLeft int64      `json:"secondsLeft"`
	At          *time.Time `json:"at,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для обращения в поддержку
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
