package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// codePattern matches OLCC product codes: leading digits with an optional
// uppercase alphanumeric suffix, e.g. "0212H", "4176B", "123".
var codePattern = regexp.MustCompile(`^[0-9]+[A-Z0-9]*$`)

// agePattern matches age declarations such as "14 YRS", "1 YR", "8 MOS".
// The unit match is case-sensitive.
var agePattern = regexp.MustCompile(`([0-9]+) (YRS?|MOS?)`)

// nonAmount matches every character that cannot appear in a price amount.
var nonAmount = regexp.MustCompile(`[^0-9.]`)

// IsCodeValid reports whether a raw product code is importable. Header
// cells and free text ("Code", "NEW ITEM CODE") fail the check, which is
// how non-data rows are filtered out of price files.
func IsCodeValid(code string) bool {
	return codePattern.MatchString(code)
}

// ParseIntFromFloat converts a numeric cell that may carry a decimal point
// ("12.0") into an integer by truncation. Spreadsheet readers render
// integer cells as floats, so this is the parser for case counts and
// store keys.
func ParseIntFromFloat(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// ParseAge normalizes an age declaration into whole years. Month
// denominated values are divided by 12 ("18 MOS" -> "1"), year values
// pass through unconverted ("12 YRS" -> "12"). The boolean is false when
// the input does not look like an age at all; callers leave the product's
// age unset in that case rather than failing the row.
func ParseAge(s string) (string, bool) {
	m := agePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	if strings.HasPrefix(m[2], "MO") {
		months, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return "", false
		}
		return strconv.Itoa(int(months) / 12), true
	}
	return m[1], true
}

// ParsePriceAmount strips everything but digits and dots from a raw price
// cell: "$1,234.56 " becomes "1234.56". No validation is performed; input
// with several dots passes through as-is.
func ParsePriceAmount(s string) string {
	return nonAmount.ReplaceAllString(s, "")
}
