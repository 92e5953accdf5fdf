package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator with the tracker's rules
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that also knows positive_duration and the
// database target rule
func NewValidator() *Validator {
	v := validator.New()

	// "required" accepts a negative duration; a ticker does not
	_ = v.RegisterValidation("positive_duration", positiveDuration)
	v.RegisterStructValidation(databaseTarget, DatabaseConfig{})

	return &Validator{
		validate: v,
	}
}

func positiveDuration(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Int64 {
		return false
	}
	return time.Duration(field.Int()) > 0
}

// databaseTarget requires postgres to name a server, either by URL or by host and database
func databaseTarget(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(DatabaseConfig)
	if cfg.Type != "postgres" || cfg.URL != "" {
		return
	}
	if cfg.Host == "" {
		sl.ReportError(cfg.Host, "Host", "host", "postgres_target", "")
	}
	if cfg.Name == "" {
		sl.ReportError(cfg.Name, "Name", "name", "postgres_target", "")
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig checks a loaded configuration after defaults were applied
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
