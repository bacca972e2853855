package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is shared by all handlers; it reports fields by their JSON names.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is one entry of a 422 response, shaped like the loc/msg/type
// triples clients of the original API already parse.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// RequestError collects why a request body was rejected.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, strings.Join(f.Loc, ".")+": "+f.Msg)
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}

// DecodeJSON decodes the body into dst and validates it.
// Any failure is returned as a *RequestError.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &RequestError{Fields: []FieldError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error.jsondecode",
		}}}
	}
	if err := Validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		out := &RequestError{}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, fieldError(fe))
		}
		return out
	}
	return nil
}

func fieldError(fe validator.FieldError) FieldError {
	loc := []string{"body", fe.Field()}
	switch fe.Tag() {
	case "required":
		return FieldError{Loc: loc, Msg: "field required", Type: "value_error.missing"}
	default:
		return FieldError{Loc: loc, Msg: "failed on the '" + fe.Tag() + "' rule", Type: "value_error." + fe.Tag()}
	}
}

// ValidationError writes a 422 describing a rejected request body.
func ValidationError(log *slog.Logger, w http.ResponseWriter, err error) {
	log.Warn("request validation failed", "err", err)
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorBody{Detail: reqErr.Fields})
		return
	}
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorBody{Detail: err.Error()})
}
