package editorconfig

import (
	"regexp"

	"go.uber.org/zap"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Has reports whether the loaded config exports a function with the given
// name. It never fails: any error during the lookup means the function is absent.
func (s *sandbox) Has(name string) bool {
	if !identifierRe.MatchString(name) || s.guard.stopped() {
		return false
	}

	val, err := s.vm.RunString("typeof exports." + name + " === 'function'")
	if err != nil {
		s.logger.Debug("function lookup failed, treating it as absent",
			zap.String("function", name),
			zap.Error(err),
		)
		return false
	}
	return val.ToBoolean()
}
