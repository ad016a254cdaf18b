package adminapi

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/app"
	"github.com/otjiningirua/owfarm/internal/store"
	"github.com/otjiningirua/owfarm/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errBadBody = errors.New("request body must be a JSON object")

// ErrorResponse is the envelope of every failed API call
type ErrorResponse struct {
	Ok     bool        `json:"ok"`
	Error  string      `json:"error"`
	Code   string      `json:"code,omitempty"`
	Detail interface{} `json:"detail,omitempty"`
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, ErrorResponse{Error: message, Code: code, Detail: detail})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func okTrue(c echo.Context, status int) error {
	return c.JSON(status, map[string]interface{}{"ok": true})
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func GetStore(c echo.Context) store.Store {
	return GetAppContext(c).Store()
}

// readDocument parses the request body as a JSON object. An empty body is
// an empty document.
func readDocument(c echo.Context) (store.Document, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	doc := store.Document{}
	if strings.TrimSpace(string(data)) == "" {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return nil, errBadBody
	}
	return doc, nil
}

// decodePayload copies doc into the typed payload and runs the struct
// validation on it.
func decodePayload(c echo.Context, doc store.Document, payload interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           payload,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]interface{}(doc)); err != nil {
		return err
	}
	return c.Validate(payload)
}

func jsonFieldName(ns string, payload interface{}) string {
	field := ns[strings.LastIndex(ns, ".")+1:]
	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(field); ok {
		if name := strings.Split(f.Tag.Get("json"), ",")[0]; name != "" {
			return name
		}
	}
	return field
}

// handleValidationError turns a decode or validation failure into a 400
func handleValidationError(c echo.Context, err error, payload interface{}) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		name := jsonFieldName(fe.StructNamespace(), payload)
		var msg string
		switch fe.Tag() {
		case "required":
			msg = name + " is required"
		case "required_without":
			msg = fmt.Sprintf("%s or %s is required", name, jsonFieldName(fe.Param(), payload))
		case "oneof":
			msg = fmt.Sprintf("%s must be one of: %s", name, fe.Param())
		case "email":
			msg = name + " must be a valid email address"
		default:
			msg = fmt.Sprintf("%s failed the %s check", name, fe.Tag())
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}
	var merr *mapstructure.Error
	if errors.As(err, &merr) && len(merr.Errors) > 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", merr.Errors[0], nil)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// bindPayload reads the body and validates it against payload. Errors are
// meant for handleValidationError.
func bindPayload(c echo.Context, payload interface{}) (store.Document, error) {
	doc, err := readDocument(c)
	if err != nil {
		return nil, err
	}
	if err := decodePayload(c, doc, payload); err != nil {
		return nil, err
	}
	return doc, nil
}

// storeError maps a store failure to a response
func storeError(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	case errors.Is(err, store.ErrInvalidField):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	zap.L().Error(message, zap.String("namespace", "api"), zap.Error(err))
	return fail(c, http.StatusInternalServerError, "STORE_ERROR", message, err.Error())
}
