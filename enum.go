package paramconv

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
//
// Fields of a bound object whose type is Enumerable can be checked with the "enum" validation rule.
type Enumerable interface {
	String() string
	Valid() error
}
