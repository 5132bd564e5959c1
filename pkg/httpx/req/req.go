package req

import (
	"fmt"
	"io"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"price_tracker/pkg/errcodes"
)

// maxBodySize caps request bodies; the API only accepts small JSON objects.
const maxBodySize = 64 << 10

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// Decode reads a JSON body into T and validates it. Failures are invalid
// argument errors with the ValidationError code.
func Decode[T any](r *http.Request) (T, error) {
	var dest T

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err != nil {
		return dest, failure.NewInvalidArgumentError(
			fmt.Errorf("io.ReadAll: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Request body unreadable or too large"),
		)
	}

	if err := json.Unmarshal(body, &dest); err != nil {
		return dest, failure.NewInvalidArgumentError(
			fmt.Errorf("json.Unmarshal: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return dest, failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	return dest, nil
}
