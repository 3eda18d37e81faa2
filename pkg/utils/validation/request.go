package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var egyptianPhone = regexp.MustCompile(`^01[0-9]{9}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name so messages can be keyed the way
	// clients send them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	v.RegisterValidation("egphone", func(fl validator.FieldLevel) bool {
		return egyptianPhone.MatchString(fl.Field().String())
	})
	return v
}

// Messages maps "field.tag" to the message returned when that rule fails.
type Messages map[string]string

// Error is the first failed rule of a request.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Struct validates v and returns an *Error for the first failing field.
func Struct(v any, messages Messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return messages.Fail(fe.Field(), fe.Tag())
}

// Fail builds the *Error for a failed rule, falling back to a generic
// message when none is registered.
func (m Messages) Fail(field, tag string) *Error {
	msg, ok := m[field+"."+tag]
	if !ok {
		msg = fmt.Sprintf("قيمة الحقل %s غير صالحة", field)
	}
	return &Error{Field: field, Tag: tag, Message: msg}
}
