// Package format holds the pure functions that reshape raw upstream
// values into the strings the display client renders verbatim.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// The display client lives in one fixed time zone; rendering must not
// depend on the server's locale.
var location *time.Location

func init() {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		loc = time.FixedZone("CET", 60*60)
	}
	location = loc
}

// Clock renders an epoch-millisecond timestamp as a 24-hour HH:mm
// string (HH:mm:ss when withSeconds is set) in the display time zone.
func Clock(millis int64, withSeconds bool) string {
	t := time.UnixMilli(millis).In(location)
	if withSeconds {
		return t.Format("15:04:05")
	}
	return t.Format("15:04")
}

// Delay renders delay minutes as signed text: positive values get a
// leading +, negative values keep their own sign. Whether exactly-zero
// is rendered "+0" or "0" is a deployment choice.
func Delay(minutes int, plusOnZero bool) string {
	if minutes > 0 || (minutes == 0 && plusOnZero) {
		return "+" + strconv.Itoa(minutes)
	}
	return strconv.Itoa(minutes)
}

// Temperature renders degrees Celsius with one decimal place and a
// unit suffix. commaDecimal switches the decimal separator to a comma
// for the deploy region.
func Temperature(celsius float64, commaDecimal bool) string {
	s := fmt.Sprintf("%.1f °C", celsius)
	if commaDecimal {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

// DestinationToken reduces a free-text destination to its first
// whitespace-delimited token, optionally title-cased. Lossy for
// multi-word stations ("MODENA PIAZZA MANZONI" becomes "MODENA"),
// which is acceptable for a one-line headline on a small screen.
func DestinationToken(raw string, titleCase bool) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	token := fields[0]
	if titleCase {
		token = title(token)
	}
	return token
}

// InGroup reports whether a destination token belongs to an allow-list,
// comparing case-insensitively with surrounding space ignored.
func InGroup(destination string, allow []string) bool {
	destination = strings.TrimSpace(destination)
	for _, name := range allow {
		if strings.EqualFold(destination, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func title(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
