package testhelper

import (
	"fmt"
	"math"
	"strings"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
)

// CompareOutput compares a rendered table with the recorded one, byte for
// byte. On mismatch it describes the first differing line, quoted so that
// whitespace and escape sequences are visible.
func CompareOutput(expected, actual string) (bool, string) {
	if expected == actual {
		return true, ""
	}
	exp := strings.Split(expected, "\n")
	act := strings.Split(actual, "\n")
	for i := 0; i < len(exp) && i < len(act); i++ {
		if exp[i] != act[i] {
			return false, fmt.Sprintf("line %d differs\n  expected: %q\n  actual:   %q", i+1, exp[i], act[i])
		}
	}
	if len(exp) != len(act) {
		return false, fmt.Sprintf("line count mismatch (expected=%d, actual=%d)", len(exp), len(act))
	}
	// Only a trailing newline can remain.
	return false, "trailing newline mismatch"
}

// CompareOptions configures canonical value comparison.
type CompareOptions struct {
	// FloatTolerance is the relative tolerance for floats. Zero requires
	// exact equality.
	FloatTolerance float64

	// NaNEqualsNaN treats NaN values as equal when true.
	NaNEqualsNaN bool

	// IgnoreKeyOrder accepts maps whose keys match in a different order.
	IgnoreKeyOrder bool
}

// DefaultOptions returns exact comparison: fixtures record kinds, key order
// and float digits, all of which can change a rendering.
func DefaultOptions() CompareOptions {
	return CompareOptions{NaNEqualsNaN: true}
}

// CompareValues compares canonical values. Int and Float are distinct kinds.
// On mismatch it returns a description naming the path of the first
// difference.
func CompareValues(expected, actual canon.Value, opts CompareOptions) (bool, string) {
	return compareValues(expected, actual, opts, "")
}

func compareValues(expected, actual canon.Value, opts CompareOptions, path string) (bool, string) {
	if expected.Kind() != actual.Kind() {
		return false, fmt.Sprintf("%s: type mismatch (expected=%s, actual=%s)", pathStr(path), expected.Kind(), actual.Kind())
	}

	switch expected.Kind() {
	case canon.KindFloat:
		if floatsEqual(expected.AsFloat(), actual.AsFloat(), opts) {
			return true, ""
		}
		return false, fmt.Sprintf("%s: float mismatch (expected=%s, actual=%s)", pathStr(path),
			canon.FormatFloat(expected.AsFloat()), canon.FormatFloat(actual.AsFloat()))
	case canon.KindSeq:
		return compareSeq(expected.Items(), actual.Items(), opts, path)
	case canon.KindMap:
		return compareMap(expected.Map(), actual.Map(), opts, path)
	default:
		if expected.Equal(actual) {
			return true, ""
		}
		return false, fmt.Sprintf("%s: %s mismatch (expected=%s, actual=%s)", pathStr(path), expected.Kind(), expected, actual)
	}
}

func floatsEqual(expected, actual float64, opts CompareOptions) bool {
	if math.IsNaN(expected) || math.IsNaN(actual) {
		return math.IsNaN(expected) && math.IsNaN(actual) && opts.NaNEqualsNaN
	}
	if expected == actual {
		return true
	}
	if opts.FloatTolerance == 0 || math.IsInf(expected, 0) || math.IsInf(actual, 0) {
		return false
	}
	if expected == 0 {
		return math.Abs(actual) <= opts.FloatTolerance
	}
	return math.Abs((expected-actual)/expected) <= opts.FloatTolerance
}

func compareSeq(expected, actual []canon.Value, opts CompareOptions, path string) (bool, string) {
	if len(expected) != len(actual) {
		return false, fmt.Sprintf("%s: array length mismatch (expected=%d, actual=%d)", pathStr(path), len(expected), len(actual))
	}
	for i := range expected {
		if ok, diff := compareValues(expected[i], actual[i], opts, fmt.Sprintf("%s[%d]", path, i)); !ok {
			return false, diff
		}
	}
	return true, ""
}

func compareMap(expected, actual *canon.Map, opts CompareOptions, path string) (bool, string) {
	for _, key := range expected.Keys() {
		if _, ok := actual.Get(key); !ok {
			return false, fmt.Sprintf("%s.%s: missing in actual", pathStr(path), key)
		}
	}
	for _, key := range actual.Keys() {
		if _, ok := expected.Get(key); !ok {
			return false, fmt.Sprintf("%s.%s: unexpected in actual", pathStr(path), key)
		}
	}
	if !opts.IgnoreKeyOrder {
		expKeys, actKeys := expected.Keys(), actual.Keys()
		for i := range expKeys {
			if expKeys[i] != actKeys[i] {
				return false, fmt.Sprintf("%s: key order mismatch at position %d (expected=%q, actual=%q)",
					pathStr(path), i, expKeys[i], actKeys[i])
			}
		}
	}
	for _, key := range expected.Keys() {
		exp, _ := expected.Get(key)
		act, _ := actual.Get(key)
		if ok, diff := compareValues(exp, act, opts, path+"."+key); !ok {
			return false, diff
		}
	}
	return true, ""
}

// pathStr formats a path for error messages using JSON Path conventions.
// Returns "$" for empty path (JSON Path root reference).
func pathStr(path string) string {
	if path == "" {
		return "$"
	}
	return strings.TrimPrefix(path, ".")
}

// CompareCase compares a recorded case with one regenerated from the same
// name, checking data, kwargs and output in that order.
func CompareCase(expected, actual Case) (bool, string) {
	if ok, diff := CompareValues(expected.Data, actual.Data, DefaultOptions()); !ok {
		return false, "data: " + diff
	}
	if ok, diff := CompareValues(expected.Kwargs, actual.Kwargs, DefaultOptions()); !ok {
		return false, "kwargs: " + diff
	}
	if ok, diff := CompareOutput(expected.Output, actual.Output); !ok {
		return false, "output: " + diff
	}
	return true, ""
}
