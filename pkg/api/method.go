package api

import (
	"regexp"
	"strings"
)

// methodPattern matches names following the Module_Method convention: module
// and method parts each starting with an uppercase letter, joined by exactly
// one underscore, nothing else.
var methodPattern = regexp.MustCompile(`^[A-Z]+[a-zA-Z]*_[A-Z]+[a-zA-Z]*$`)

// IsAPIMethod reports whether name looks like a remote API method, e.g.
// "Files_GetAssetDetails".
func IsAPIMethod(name string) bool {
	return methodPattern.MatchString(name)
}

// ActionForMethod translates a Module_Method name into the dotted action the
// remote expects, e.g. "Core_LoginWithKey" becomes "Core.LoginWithKey".
// Names that do not satisfy the convention yield an UnknownMethodError.
func ActionForMethod(name string) (string, error) {
	if !IsAPIMethod(name) {
		return "", &UnknownMethodError{Name: name}
	}
	return strings.Replace(name, "_", ".", 1), nil
}
