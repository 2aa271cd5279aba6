package forthic

import "strings"

// Variable is a named binding in a Module's variable table, introduced by
// VARIABLES and read/written by '@'/'!'/'!@'.
type Variable struct {
	Name  string
	Value Value
}

func isReservedVariableName(name string) bool { return strings.HasPrefix(name, "__") }
