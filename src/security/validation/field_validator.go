// src/security/validation/field_validator.go
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = errors.New("validation failed")

const (
	MaxMachineIDLength = 64
	MaxFilenameLength  = 255
	MaxAmount          = 1_000_000.0
)

var machineIDRegex = regexp.MustCompile(`^[A-Za-z0-9._/\-]+$`)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateMachineID checks a machine key taken from a URL or an ID1 segment.
func ValidateMachineID(s string) error {
	if err := ValidateStringNotEmpty(s, "machine id"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(s, MaxMachineIDLength, "machine id"); err != nil {
		return err
	}
	if !machineIDRegex.MatchString(s) {
		return fmt.Errorf("%w: machine id ('%s') may only contain letters, digits and . _ / -", ErrValidationFailed, s)
	}
	return nil
}

// ValidateAmount checks a manually entered money amount.
func ValidateAmount(v float64, fieldName string) error {
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	if v > MaxAmount {
		return fmt.Errorf("%w: %s must not exceed %.2f", ErrValidationFailed, fieldName, MaxAmount)
	}
	return nil
}
