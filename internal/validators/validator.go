package validators

import (
	"errors"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
)

var datePasswordPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared instance with the portal tags registered:
// portalemail and datepassword.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("portalemail", func(fl validator.FieldLevel) bool {
			return IsEmailFormatValid(fl.Field().String())
		})
		_ = v.RegisterValidation("datepassword", func(fl validator.FieldLevel) bool {
			return datePasswordPattern.MatchString(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Messages maps "Field.tag" to a user-facing message and error code.
type Messages map[string]Message

type Message struct {
	Code string
	Text string
}

// Struct validates s and turns the first failure into a validation error.
// Failures without an entry in msgs fall back to fallback.
func Struct(s any, msgs Messages, fallback Message) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
			return httperr.ErrValidation(m.Code, m.Text)
		}
		if m, ok := msgs[fe.Field()]; ok {
			return httperr.ErrValidation(m.Code, m.Text)
		}
	}
	return httperr.ErrValidation(fallback.Code, fallback.Text)
}
