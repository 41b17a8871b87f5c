package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar days (standup date, query filters).
const DateLayout = "2006-01-02"

// FieldError is one entry of the error.details list returned on 400s.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Init configures the validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers the custom standup tags and aliases.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs tag name resolution, aliases and custom rules on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	v.RegisterAlias("pwd", "min=8")
	v.RegisterAlias("standup_status", "oneof=draft submitted")
	v.RegisterAlias("user_status", "oneof=active inactive")
	_ = v.RegisterValidation("markdown", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return ValidMarkdown(fl.Field().String())
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(DateLayout, s)
		return err == nil
	})
}

// ToDetails converts binding errors into a field/message list.
func ToDetails(err error) []FieldError {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return []FieldError{{Field: "payload", Message: "invalid json"}}
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return []FieldError{{Field: field, Message: "must be a " + ute.Type.String()}}
	}
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return []FieldError{{Field: "query", Message: "must be a number"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return out
	}

	return []FieldError{{Field: "payload", Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	number := isNumberKind(fe.Kind())

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "timezone":
		return "must be a valid timezone"
	case "markdown":
		return "contains invalid markdown syntax"
	case "isodate":
		return "must be a date formatted as YYYY-MM-DD"
	case "pwd":
		return "must be at least 8 characters long"
	case "standup_status", "user_status", "oneof":
		if param == "" {
			return "has an unsupported value"
		}
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if number {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if number {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
