package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/diabetes-api/internal/entity"
)

// MaxBodyBytes caps request bodies; every endpoint takes a handful of small fields.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. Every failure wraps entity.ErrInvalidFormat
// and names the offending field when the decoder knows it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))

	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is required", entity.ErrInvalidFormat)
	case errors.As(err, &typeErr):
		return fmt.Errorf("%w: field %q must be a %s, got %s", entity.ErrInvalidFormat, typeErr.Field, typeErr.Type, typeErr.Value)
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("%w: malformed JSON at offset %d", entity.ErrInvalidFormat, syntaxErr.Offset)
	case errors.As(err, &sizeErr):
		return fmt.Errorf("%w: request body exceeds %d bytes", entity.ErrInvalidFormat, sizeErr.Limit)
	default:
		return fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
}
