package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"admin/internal/configuration"
	apierrors "admin/internal/errors"
	"admin/internal/helpers"

	"github.com/go-playground/validator/v10"
)

type BodyKey struct{}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator prepares the shared validator. Field errors are reported with their json names.
func InitValidator() {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
	})
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func getValidator() *validator.Validate {
	InitValidator()
	return validate
}

// Validate decodes a JSON or form encoded body into T, validates it and stores it in the context.
func Validate[T any](next http.Handler) http.Handler {
	return validated(decodeBody[T], next)
}

// ValidateQuery does the same as Validate for the query string.
func ValidateQuery[T any](next http.Handler) http.Handler {
	return validated(func(r *http.Request) (T, error) {
		var data T
		if err := decodeValues(r.URL.Query(), &data); err != nil {
			return data, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidBody)
		}
		return data, nil
	}, next)
}

func validated[T any](decode func(*http.Request) (T, error), next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := decode(r)
		if err != nil {
			helpers.RespondWithError(w, err)
			return
		}

		if err = getValidator().Struct(data); err != nil {
			GetLogger(r).Debug("Request validation failed", zapValidationErrors(err)...)
			helpers.RespondWithMessage(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		ctx := context.WithValue(r.Context(), BodyKey{}, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetBody returns the value stored by Validate[T].
func GetBody[T any](r *http.Request) (T, bool) {
	data, ok := r.Context().Value(BodyKey{}).(T)
	return data, ok
}

func decodeBody[T any](r *http.Request) (T, error) {
	var data T

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(configuration.MaxMultipartMemory)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return data, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidBody)
		}
		if err := decodeValues(r.PostForm, &data); err != nil {
			return data, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidBody)
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			return data, apierrors.NewAPIError(http.StatusBadRequest, apierrors.MsgInvalidJSON)
		}
	}
	return data, nil
}

// decodeValues maps url.Values onto the json tags of a flat struct.
func decodeValues[T any](values map[string][]string, data *T) error {
	target := reflect.ValueOf(data).Elem()
	if target.Kind() != reflect.Struct {
		return errors.New("form decoding needs a struct")
	}

	for i := range target.NumField() {
		field := target.Type().Field(i)
		name := jsonFieldName(field)
		raw, ok := values[name]
		if !ok || name == "" || len(raw) == 0 {
			continue
		}

		value := target.Field(i)
		switch value.Kind() {
		case reflect.String:
			value.SetString(raw[0])
		case reflect.Int, reflect.Int64, reflect.Int32:
			n, err := strconv.ParseInt(raw[0], 10, 64)
			if err != nil {
				return err
			}
			value.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw[0])
			if err != nil {
				return err
			}
			value.SetBool(b)
		}
	}
	return nil
}
