package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var recordValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a record's field constraints. It is applied at the
// boundaries where records enter the system: CLI input and decoded
// persistence payloads.
func Validate(record any) error {
	err := recordValidator.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", record, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid %T: %s", record, strings.Join(msgs, "; "))
}
