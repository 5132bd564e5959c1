package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	InvalidURL          failure.ErrorCode = "InvalidURL"          // Не тот сайт, битая ссылка или страница недоступна
	ItemAlreadyTracked  failure.ErrorCode = "ItemAlreadyTracked"  // URL уже в списке
	ItemNotTracked      failure.ErrorCode = "ItemNotTracked"      // URL нет в списке
	ItemNameUnavailable failure.ErrorCode = "ItemNameUnavailable" // Не удалось прочитать название со страницы
	CorruptState        failure.ErrorCode = "CorruptState"        // Сохранённое состояние не читается
	StorageFailure      failure.ErrorCode = "StorageFailure"
)
