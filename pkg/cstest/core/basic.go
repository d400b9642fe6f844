package core

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
)

type Named interface {
	// Returns the unique name of the entity
	Name() string
}

type LoggerProvider interface {
	// Logger returns the logger to be used for logging.
	Logger() *logrus.Logger
}

var entityNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// ValidateEntityName checks that a case or test name is usable as one half of
// a `Case.Test` key. `kind` is only used to build the error message.
func ValidateEntityName(name string, kind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", kind)
	}

	if !entityNameRegex.MatchString(name) {
		return fmt.Errorf("%s name '%s' is invalid, it must match %s", kind, name, entityNameRegex.String())
	}

	return nil
}
