package validators

import (
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	// MaxFormMemory bounds the in-memory part of multipart parsing; larger files spill to disk.
	MaxFormMemory = 8 << 20

	msgFillAllFields = "Please fill all fields."
	msgInvalidEmail  = "Please enter a valid email address."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// ParseForm parses url-encoded and multipart bodies. Calling it twice is harmless.
func ParseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(MaxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form submission")
	}
	return nil
}

// DecodeForm fills dest from the request form using `form` tags, trimming strings, then runs
// the `validate` tags.
func DecodeForm(r *http.Request, dest any) error {
	if err := ParseForm(r); err != nil {
		return err
	}
	if err := bindValues(r, dest); err != nil {
		return err
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func bindValues(r *http.Request, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return pkgerrors.New(pkgerrors.CodeInternal, "form destination must be a struct pointer")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		_, present := r.Form[name]
		raw := strings.TrimSpace(r.FormValue(name))
		target := rv.Field(i)

		switch target.Kind() {
		case reflect.String:
			target.SetString(raw)
		case reflect.Bool:
			target.SetBool(present && checkboxValue(raw))
		case reflect.Int, reflect.Int64:
			if raw == "" {
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fieldError(name, "must be a whole number")
			}
			target.SetInt(n)
		case reflect.Uint, reflect.Uint64:
			if raw == "" {
				continue
			}
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return fieldError(name, "must be a positive whole number")
			}
			target.SetUint(n)
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported form field kind %s", target.Kind()))
		}
	}
	return nil
}

func checkboxValue(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "on", "true", "1", "yes":
		return true
	}
	return false
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s %s", field, message)).
		WithDetails(map[string]string{field: message})
}

func formatValidationErrors(err error) *pkgerrors.Error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	message := ""
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
		if message != "" {
			continue
		}
		switch fieldErr.Tag() {
		case "required":
			message = msgFillAllFields
		case "email":
			message = msgInvalidEmail
		}
	}
	if message == "" {
		message = "validation failed"
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
