// Package validation collects request validation failures per field so
// that every problem with a payload is reported in a single 422
// response rather than one at a time.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Отдаём в ошибках имена json-полей, а не имена полей структур
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// due_date не раньше сегодняшнего дня; ошибки формата ловит тег datetime
	validate.RegisterValidation("after_or_equal_today", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(dateLayout, fl.Field().String())
		if err != nil {
			return true
		}
		y, m, day := time.Now().Date()
		today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		return !d.Before(today)
	})
}

// messages maps "field.tag" to the exact human-readable message the
// API reports for that failure.
var messages = map[string]string{
	"title.required":                "Task title is required",
	"title.max":                     "Task title cannot exceed 255 characters",
	"status.oneof":                  "Status must be one of: pending, in_progress, completed",
	"priority.oneof":                "Priority must be one of: low, medium, high",
	"due_date.datetime":             "Due date must be a valid date",
	"due_date.after_or_equal_today": "Due date cannot be in the past",
	"email.required":                "The email field is required.",
	"email.email":                   "The email must be a valid email address.",
	"password.required":             "The password field is required.",
	"password.min":                  "The password must be at least 6 characters.",
}

// MsgTitleTaken is appended by handlers after the uniqueness probe,
// which needs a database round-trip and so lives outside the tag rules.
const MsgTitleTaken = "A task with this title already exists"

// MsgTitleRequired is reused by handlers for the update case where an
// explicitly empty title slips past omitempty.
const MsgTitleRequired = "Task title is required"

// Fields validates a request struct and returns failures keyed by json
// field name, each with its message list. A nil map means the payload
// passed.
func Fields(v any) map[string][]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"request": {err.Error()}}
	}

	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("The %s field is invalid.", fe.Field())
}

// ParseDate parses the API's date-only format.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// FormatDate renders a due date back in the API's date-only format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
