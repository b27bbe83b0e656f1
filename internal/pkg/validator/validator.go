package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ev-station-service/internal/domain"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	personNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	hhmmRe       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	indexRe      = regexp.MustCompile(`\[\d+\]`)
)

// messageOverrides - тексты для конкретных пар поле+тег
var messageOverrides = map[string]string{
	"password.min":    "Password must be at least 6 characters long",
	"newPassword.min": "Password must be at least 6 characters long",
	"email.email":     "Please provide a valid email",
}

// MessageProvider is implemented by request types that carry their own
// user-facing messages. Keys are "path.tag" or just "path".
type MessageProvider interface {
	ValidationMessages() map[string]string
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("station_status", func(fl validator.FieldLevel) bool {
		return domain.StationStatus(fl.Field().String()).IsValid()
	})
	mustRegister("connector_type", func(fl validator.FieldLevel) bool {
		return domain.ConnectorType(fl.Field().String()).IsValid()
	})
	mustRegister("amenity", func(fl validator.FieldLevel) bool {
		return domain.Amenity(fl.Field().String()).IsValid()
	})
	mustRegister("sort_field", func(fl validator.FieldLevel) bool {
		return domain.SortField(fl.Field().String()).IsValid()
	})
	mustRegister("person_name", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	mustRegister("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// Validate - валидация структуры.
// Returns nil or a VALIDATION_ERROR *errors.AppError whose fields follow
// struct declaration order.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ErrInvalidRequest
	}

	fields := Translate(verrs)
	if mp, ok := s.(MessageProvider); ok {
		applyMessages(fields, verrs, mp.ValidationMessages())
	}
	return errors.Validation(fields...)
}

func applyMessages(fields []errors.FieldError, verrs validator.ValidationErrors, custom map[string]string) {
	for i, fe := range verrs {
		path := indexRe.ReplaceAllString(fields[i].Field, "")
		if msg, ok := custom[path+"."+fe.Tag()]; ok {
			fields[i].Message = msg
		} else if msg, ok := custom[path]; ok {
			fields[i].Message = msg
		}
	}
}

// Translate converts validator errors into field errors with readable messages.
func Translate(verrs validator.ValidationErrors) []errors.FieldError {
	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe)
		fields = append(fields, errors.FieldError{
			Field:   path,
			Message: message(path, fe),
		})
	}
	return fields
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// fieldPath drops the root struct name: "CreateStationRequest.location.latitude" -> "location.latitude".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(path string, fe validator.FieldError) string {
	if msg, ok := messageOverrides[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s cannot be more than %s characters long", path, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", path, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", path, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", path, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", path, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s cannot exceed %s", path, fe.Param())
	case "email":
		return "Please provide a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", path, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid", "uuid4":
		return fmt.Sprintf("Invalid %s format", path)
	case "station_status":
		return "Status must be Active, Inactive, Maintenance, or Out of Order"
	case "connector_type":
		return "Invalid connector type"
	case "amenity":
		return "Invalid amenity"
	case "sort_field":
		return fmt.Sprintf("%s must be one of: %s", path, joinSortFields())
	case "person_name":
		return "Name can only contain letters and spaces"
	case "hhmm":
		return fmt.Sprintf("%s must be in HH:MM format", path)
	}

	return fmt.Sprintf("%s is invalid", path)
}

func joinSortFields() string {
	parts := make([]string, len(domain.SortFields))
	for i, f := range domain.SortFields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
