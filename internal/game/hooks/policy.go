package hooks

// Policy is a hook's combination rule. It is fixed per hook name, never per
// component instance.
type Policy int

const (
	// Unique resolves to the last-defined component's value.
	Unique Policy = iota
	// AllDefaultFalse is the logical AND of all definitions, false if none.
	AllDefaultFalse
	// AllDefaultTrue is the logical AND of all definitions, true if none.
	AllDefaultTrue
	// AnyDefaultFalse is the logical OR of all definitions, false if none.
	AnyDefaultFalse
	// NumericAccum is the sum of all numeric definitions, 0 if none.
	NumericAccum
	// NumericMultiply is the product of all numeric definitions, 1 if none.
	NumericMultiply
	// NoReturn marks side-effect-only hooks with no resolved value.
	NoReturn
)

// String returns the policy name used in data files and logs.
func (p Policy) String() string {
	switch p {
	case Unique:
		return "UNIQUE"
	case AllDefaultFalse:
		return "ALL_DEFAULT_FALSE"
	case AllDefaultTrue:
		return "ALL_DEFAULT_TRUE"
	case AnyDefaultFalse:
		return "ANY_DEFAULT_FALSE"
	case NumericAccum:
		return "NUMERIC_ACCUM"
	case NumericMultiply:
		return "NUMERIC_MULTIPLY"
	case NoReturn:
		return "NO_RETURN"
	default:
		return "UNKNOWN"
	}
}
