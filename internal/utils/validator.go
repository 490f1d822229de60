package utils

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"

	"foodconnect/internal/schemas"
)

type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
	policy      *bluemonday.Policy
}

var (
	instance      *Validator
	configuration *truemail.Configuration
	once          sync.Once
)

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "team@mail.foodconnect.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: validateEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		instance.Validate.RegisterTagNameFunc(jsonFieldName)
		registerCustomValidators(instance.Validate)
	})

	return instance
}

// jsonFieldName makes validation errors report the field as the client spells it.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validateEmail(email string) bool {
	if configuration == nil {
		return true
	}
	return truemail.IsValid(email, configuration)
}

// SanitizeData strips markup from every string field of the struct obj points to.
// Fields tagged `sanitize:"-"` are left untouched.
func (v *Validator) SanitizeData(obj interface{}) {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return
	}
	value = value.Elem()
	structType := value.Type()

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.String {
			continue
		}
		if structType.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		field.SetString(v.policy.Sanitize(field.String()))
	}
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("role_validation", roleValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("timestamp_validation", timestampValidation)
	if err != nil {
		return
	}
}

func roleValidation(fl validator.FieldLevel) bool {
	_, ok := schemas.ParseRole(fl.Field().String())
	return ok
}

func timestampValidation(fl validator.FieldLevel) bool {
	_, err := schemas.ParseTimestamp(fl.Field().String())
	return err == nil
}
