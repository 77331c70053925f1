package embedded

import (
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const nullLiteral = "NULL"

// slotType is the resolved type information of one prepared statement slot.
type slotType struct {
	typ    Type
	name   string
	digits int
	scale  int
}

func newSlotType(m SlotMeta) slotType {
	return slotType{typ: TypeFromName(m.TypeName), name: m.TypeName, digits: m.Digits, scale: m.Scale}
}

func (s slotType) displayName() string {
	if s.name != "" {
		return s.name
	}
	return s.typ.String()
}

func boolLiteral(v bool) string {
	return strconv.FormatBool(v)
}

func intLiteral(v int64) string {
	return strconv.FormatInt(v, 10)
}

func floatLiteral(v float64, bitSize int) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", newErrorf(InvalidLiteral, "%v has no SQL literal", v)
	}
	return strconv.FormatFloat(v, 'g', -1, bitSize), nil
}

// decimalLiteral rounds d half away from zero to the slot scale, checks the
// slot precision, and writes it without leading zeros.
func decimalLiteral(d decimal.Decimal, digits, scale int) (string, error) {
	if scale < 0 {
		scale = 0
	}
	r := d.Round(int32(scale))
	if digits > 0 {
		if p := decimalPrecision(r); p > digits {
			return "", newErrorf(PrecisionExceeded, "decimal value exceeds allowed digits/scale: %s (%d/%d)",
				r.StringFixed(int32(scale)), digits, scale)
		}
	}
	s := r.StringFixed(int32(scale))
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s) > dot+1+scale {
		s = s[:dot+1+scale]
	}
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s, nil
}

// decimalPrecision counts the digits of the unscaled value of d, the way a
// fixed point column counts them. Zero has precision one.
func decimalPrecision(d decimal.Decimal) int {
	c := new(big.Int).Abs(d.Coefficient())
	if c.Sign() == 0 {
		return 1
	}
	return len(c.String())
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// numberGrammar is plain decimal notation with an optional exponent.
var numberGrammar = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// urlSchemes lists the accepted protocols. The value tells whether the
// scheme needs a host.
var urlSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"file":   false,
	"jar":    false,
	"mailto": false,
}

func validURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	needsHost, ok := urlSchemes[strings.ToLower(u.Scheme)]
	switch {
	case u.Scheme == "":
		return newErrorf(InvalidLiteral, "no protocol")
	case !ok:
		return newErrorf(InvalidLiteral, "unknown protocol: %s", u.Scheme)
	case needsHost && u.Host == "":
		return newErrorf(InvalidLiteral, "no host in %s url", u.Scheme)
	case u.Host == "" && u.Opaque == "" && u.Path == "":
		return newErrorf(InvalidLiteral, "no location")
	}
	return nil
}

// stringLiteral writes s for a slot of type st. Strings for non-string slots
// are validated against the slot type's own grammar first, so the rendered
// statement never carries text the engine would reject.
func stringLiteral(d Dialect, st slotType, s string) (string, error) {
	invalid := func(err error) error {
		return &Error{
			Type:    InvalidLiteral,
			Message: "conversion of string " + strconv.Quote(s) + " to parameter data type " + st.displayName() + " failed",
			Err:     err,
		}
	}
	t := st.typ
	switch {
	case t.IsString():
		switch t {
		case TypeURL:
			if err := validURL(s); err != nil {
				return "", invalid(err)
			}
		case TypeUUID:
			if _, err := uuid.Parse(s); err != nil {
				return "", invalid(err)
			}
		}
		switch t {
		case TypeURL, TypeInet, TypeJSON, TypeUUID:
			return d.TypedLiteral(t, d.QuoteString(s)), nil
		}
		return d.QuoteString(s), nil

	case t.IsNumeric():
		if !numberGrammar.MatchString(s) {
			return "", invalid(newErrorf(InvalidLiteral, "not a decimal number"))
		}
		var err error
		switch t {
		case TypeTinyint:
			_, err = strconv.ParseInt(s, 10, 8)
		case TypeSmallint:
			_, err = strconv.ParseInt(s, 10, 16)
		case TypeInt, TypeMonthInterval:
			_, err = strconv.ParseInt(s, 10, 32)
		case TypeBigint, TypeSecInterval:
			_, err = strconv.ParseInt(s, 10, 64)
		case TypeReal, TypeDouble:
			var f float64
			if f, err = strconv.ParseFloat(s, 64); err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
				err = newErrorf(InvalidLiteral, "not a finite number")
			}
		case TypeHugeint:
			if _, ok := new(big.Int).SetString(s, 10); !ok {
				err = newErrorf(InvalidLiteral, "not an integer")
			}
		default:
			_, err = decimal.NewFromString(s)
		}
		if err != nil {
			return "", invalid(err)
		}
		return s, nil

	case t == TypeBoolean:
		if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") || s == "0" || s == "1" {
			return s, nil
		}
		return "", invalid(nil)

	case t.IsTemporal():
		var err error
		switch t {
		case TypeDate:
			_, err = ParseDate(s)
		case TypeTime, TypeTimeTZ:
			_, err = ParseTime(s)
		default:
			_, err = ParseTimestamp(s)
		}
		if err != nil {
			return "", invalid(err)
		}
		return d.TypedLiteral(t, d.QuoteString(s)), nil

	case t == TypeBlob:
		if len(s)%2 != 0 || !isHex(s) {
			return "", &Error{
				Type:    InvalidLiteral,
				Message: "invalid string for parameter data type " + st.displayName() + ", the string may contain only pairs of hex chars",
			}
		}
		return d.HexBlobLiteral(s), nil
	}
	return "", newErrorf(UnsupportedConversion, "conversion of string to parameter data type %s is not supported", st.displayName())
}

func dateLiteral(d Dialect, t time.Time, loc *time.Location) string {
	return d.TypedLiteral(TypeDate, d.QuoteString(formatDate(t, loc)))
}

// timeLiteral writes a time. Timezone-aware slots get the offset-qualified form.
func timeLiteral(d Dialect, st slotType, t time.Time, loc *time.Location) string {
	if st.typ.HasTimeZone() {
		return d.TypedLiteral(TypeTimeTZ, d.QuoteString(formatTime(t, loc, true)))
	}
	return d.TypedLiteral(TypeTime, d.QuoteString(formatTime(t, loc, false)))
}

func timestampLiteral(d Dialect, st slotType, t time.Time, loc *time.Location) string {
	if st.typ.HasTimeZone() {
		return d.TypedLiteral(TypeTimestampTZ, d.QuoteString(formatTimestamp(t, loc, true)))
	}
	return d.TypedLiteral(TypeTimestamp, d.QuoteString(formatTimestamp(t, loc, false)))
}
