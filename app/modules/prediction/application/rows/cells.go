package rows

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	predictiontypes "github.com/Black-And-White-Club/predictor-bot/app/modules/prediction/domain/types"
)

// serialUnixEpoch is the serial number of 1970-01-01. Serial 0 is therefore
// 1899-12-30 and serial 1 is 1899-12-31; dates before 1900-03-01 are off by
// the spreadsheet leap-year artifact, which is kept.
const serialUnixEpoch = 25569

const secondsPerDay = 86400

// SerialToTime converts a spreadsheet serial date to a time in loc. The
// integral part selects the day; the fractional part is time of day, floored
// to whole seconds after a 1e-7 nudge against float error.
func SerialToTime(serial float64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	days := int64(math.Floor(serial - serialUnixEpoch))
	day := time.Unix(days*secondsPerDay, 0).UTC()

	fraction := serial - math.Floor(serial) + 0.0000001
	total := int(math.Floor(secondsPerDay * fraction))
	seconds := total % 60
	total -= seconds
	hours := total / 3600
	minutes := (total / 60) % 60

	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, seconds, 0, loc)
}

// ParseNumber reads a numeric cell. Numeric text counts; blanks, NaN and
// infinities do not.
func ParseNumber(cell any) (float64, bool) {
	var v float64
	switch c := cell.(type) {
	case float64:
		v = c
	case float32:
		v = float64(c)
	case int:
		v = float64(c)
	case int32:
		v = float64(c)
	case int64:
		v = float64(c)
	case uint:
		v = float64(c)
	case uint32:
		v = float64(c)
	case uint64:
		v = float64(c)
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(c)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeTeamName returns the comparison key for a team cell: "" for a
// blank cell, otherwise the trimmed, lower-cased text.
func NormalizeTeamName(cell any) string {
	switch c := cell.(type) {
	case nil:
		return ""
	case string:
		return predictiontypes.NormalizeTeam(c)
	case json.Number:
		return predictiontypes.NormalizeTeam(c.String())
	}
	if v, ok := ParseNumber(cell); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
