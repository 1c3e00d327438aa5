package dao

// Parameter carries a named filter value for List operations.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a filter parameter; a single value stays scalar,
// multiple values turn into a slice.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
