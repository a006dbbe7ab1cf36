package plinth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeConfiguration indicates the container or a definition is misconfigured
	CodeConfiguration = "CONFIGURATION_ERROR"

	// CodeNotFound indicates an identifier resolves to no constructible definition
	CodeNotFound = "NOT_FOUND"

	// CodeCircularDependency indicates a definition depends on itself
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeTypeMismatch indicates a resolved value cannot be passed as a parameter
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeConstruction indicates a constructor returned an error
	CodeConstruction = "CONSTRUCTION_FAILED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrConfigurationSentinel is a sentinel error for configuration failures (for error checking).
var ErrConfigurationSentinel = errs.NewError(CodeConfiguration, "configuration error", nil)

// ErrNotFoundSentinel is a sentinel error for unresolvable identifiers (for error checking).
var ErrNotFoundSentinel = errs.NewError(CodeNotFound, "not found", nil)

// ErrCircularDependencySentinel is a sentinel error for circular dependency (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrTypeMismatchSentinel is a sentinel error for type mismatch during injection.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrConstructionSentinel is a sentinel error for failed constructors.
var ErrConstructionSentinel = errs.NewError(CodeConstruction, "construction failed", nil)

// ErrEmptyIdentifier is returned when an empty identifier is requested.
var ErrEmptyIdentifier = errs.NewError(CodeConfiguration, "identifier cannot be empty", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// NewConfigurationError creates an error for a misconfigured subject
func NewConfigurationError(subject, reason string) *errs.Error {
	return errs.NewError(
		CodeConfiguration,
		fmt.Sprintf("'%s': %s", subject, reason),
		nil,
	).WithContext("subject", subject).(*errs.Error)
}

// ErrNotFound creates an error for an identifier with no definition
func ErrNotFound(id string) *errs.Error {
	return errs.NewError(
		CodeNotFound,
		fmt.Sprintf("'%s' does not exist", id),
		nil,
	).WithContext("id", id).(*errs.Error)
}

// ErrScalarParam creates an error for a built-in parameter that cannot be auto-injected
func ErrScalarParam(owner string, index int, name string) *errs.Error {
	label := name
	if label == "" {
		label = fmt.Sprintf("#%d", index)
	}

	return errs.NewError(
		CodeConfiguration,
		fmt.Sprintf("error while injecting '%s' parameter '%s': built-in type needs a default value,"+
			" a nullable type, or an explicit argument override", owner, label),
		nil,
	).WithContext("owner", owner).
		WithContext("param", label).(*errs.Error)
}

// ErrNotInvocable creates an error for a call target that cannot be invoked
func ErrNotInvocable(target any) *errs.Error {
	return errs.NewError(
		CodeConfiguration,
		fmt.Sprintf("call target %v (%T) is not invocable", target, target),
		nil,
	).WithContext("target", fmt.Sprintf("%T", target)).(*errs.Error)
}

// ErrCircularDependency creates an error for circular dependency detection
func ErrCircularDependency(cycle []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")),
		nil,
	).WithContext("cycle", cycle).(*errs.Error)
}

// ErrTypeMismatch creates an error for a value that does not fit a parameter
func ErrTypeMismatch(owner string, want reflect.Type, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("'%s' type mismatch: want %s, got %T", owner, want, actual),
		nil,
	).WithContext("owner", owner).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// NewConstructionError creates an error for a constructor that failed
func NewConstructionError(name string, cause error) *errs.Error {
	return errs.NewError(
		CodeConstruction,
		fmt.Sprintf("constructing '%s' failed", name),
		cause,
	).WithContext("id", name).(*errs.Error)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFoundSentinel)
}

// IsConfiguration reports whether err is a ConfigurationError. Circular
// dependencies and type mismatches are configuration failures too.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfigurationSentinel) ||
		errors.Is(err, ErrCircularDependencySentinel) ||
		errors.Is(err, ErrTypeMismatchSentinel)
}
