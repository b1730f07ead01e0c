package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm/schema"
)

var (
	validate = newValidator()
	naming   = schema.NamingStrategy{}
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name, or by column name for hidden keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return naming.ColumnName("", fld.Name)
		}
		return name
	})
	return v
}

// Validate checks the struct tags of an entity and returns a
// *ValidationError naming every failing field.
func Validate(resource string, entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validating %s: %w", resource, err)
	}

	verr := &ValidationError{Resource: resource, Fields: make(map[string]string, len(validationErrs))}
	for _, fe := range validationErrs {
		verr.Fields[fe.Field()] = describe(fe)
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag()
	}
}

func (u *User) Validate() error {
	return Validate("user", u)
}

func (r *Recipe) Validate() error {
	return Validate("recipe", r)
}

func (r *Review) Validate() error {
	return Validate("review", r)
}

func (s *RecipeSwap) Validate() error {
	return Validate("recipe swap", s)
}
