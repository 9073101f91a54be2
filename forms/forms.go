// Package forms decodes HTML form posts into request structs and reports
// field-level validation errors.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// Errors maps a form field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether any field failed.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Parser decodes and validates form submissions. Safe for concurrent use.
type Parser struct {
	decoder  *schema.Decoder
	validate *validator.Validate
}

func NewParser() *Parser {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Parser{decoder: decoder, validate: validate}
}

// Parse fills dst from the request's POST body. Field problems come back as
// Errors; a non-nil error means the request itself could not be read.
func (p *Parser) Parse(r *http.Request, dst interface{}) (Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return p.ParseValues(r.PostForm, dst)
}

// ParseValues is Parse for already-extracted values.
func (p *Parser) ParseValues(values url.Values, dst interface{}) (Errors, error) {
	errs := Errors{}

	if err := p.decoder.Decode(dst, clean(values)); err != nil {
		var multi schema.MultiError
		if !errors.As(err, &multi) {
			return nil, fmt.Errorf("decode form: %w", err)
		}
		for key, fieldErr := range multi {
			var conv schema.ConversionError
			if !errors.As(fieldErr, &conv) {
				return nil, fmt.Errorf("decode form field %s: %w", key, fieldErr)
			}
			errs.Add(key, "Not a valid integer value.")
		}
	}

	if err := p.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate form: %w", err)
		}
		for _, fe := range verrs {
			// a conversion failure already explains this field
			if _, seen := errs[fe.Field()]; seen {
				continue
			}
			errs.Add(fe.Field(), message(fe))
		}
	}

	return errs, nil
}

// clean trims values and drops blank ones, so a blank integer input stays
// nil instead of decoding to zero. Passwords are kept verbatim.
func clean(values url.Values) url.Values {
	out := url.Values{}
	for key, vs := range values {
		for _, v := range vs {
			if !strings.Contains(key, "password") {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				continue
			}
			out.Add(key, v)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "min":
		if isNumber(fe.Kind()) {
			return "Number must be at least " + fe.Param() + "."
		}
		return "Field must be at least " + fe.Param() + " characters long."
	case "max":
		if isNumber(fe.Kind()) {
			return "Number must be at most " + fe.Param() + "."
		}
		return "Field cannot be longer than " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
