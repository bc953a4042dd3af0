// printer.go — human-readable rendering of runtime values.
package lambda

import "strconv"

// formatNumber renders a float the way the language prints numbers:
// plain decimal text, never scientific notation ("5", "2.5",
// "1756000000000"), with integers kept bare. Epoch-millisecond values
// from the time capability must survive printing intact.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatValue renders a Value for the REPL and diagnostics.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNumber:
		return formatNumber(v.number())
	case VTClosure:
		return "<λ" + v.Data.(*Closure).Param + ">"
	case VTUnit:
		return "()"
	case VTRecursion:
		return "<𝑓>"
	case VTHalt:
		return "<halt>"
	default:
		return "<unknown>"
	}
}
