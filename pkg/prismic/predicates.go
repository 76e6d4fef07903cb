package prismic

import (
	"fmt"
	"strconv"
	"strings"
)

// Predicate is one condition of a query: an operator applied to a path
// and values.
type Predicate struct {
	Op   string
	Args []any
}

// String renders the predicate in query syntax, e.g.
// [:d = at(document.type, "article")].
func (p Predicate) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = serializeArg(a)
	}
	return "[:d = " + p.Op + "(" + strings.Join(args, ", ") + ")]"
}

// serializeArg quotes string values but leaves document paths bare.
func serializeArg(v any) string {
	switch v := v.(type) {
	case string:
		if strings.HasPrefix(v, "my.") || strings.HasPrefix(v, "document.") || v == "document" {
			return v
		}
		return `"` + v + `"`
	case []string:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = serializeArg(s)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []any:
		items := make([]string, len(v))
		for i, s := range v {
			items[i] = serializeArg(s)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return serializeArg(v.String())
	default:
		return `""`
	}
}

// QueryString joins predicates into a full query.
func QueryString(predicates ...Predicate) string {
	var sb strings.Builder
	sb.WriteString("[")
	for _, p := range predicates {
		sb.WriteString(p.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func predicate(op, path string, args ...any) Predicate {
	return Predicate{Op: op, Args: append([]any{path}, args...)}
}

// At matches documents whose path equals value.
func At(path string, value any) Predicate { return predicate("at", path, value) }

// Not matches documents whose path differs from value.
func Not(path string, value any) Predicate { return predicate("not", path, value) }

// Any matches documents whose path equals one of values.
func Any(path string, values []string) Predicate { return predicate("any", path, values) }

// In matches documents whose path is one of values. Used for ids and uids.
func In(path string, values []string) Predicate { return predicate("in", path, values) }

// Fulltext searches value in path, which may be "document".
func Fulltext(path, value string) Predicate { return predicate("fulltext", path, value) }

// Similar matches documents similar to the document id.
func Similar(id string, maxResults int) Predicate {
	return Predicate{Op: "similar", Args: []any{id, maxResults}}
}

// Has matches documents where path is set.
func Has(path string) Predicate { return predicate("has", path) }

// Missing matches documents where path is not set.
func Missing(path string) Predicate { return predicate("missing", path) }

// GreaterThan matches numbers above value.
func GreaterThan(path string, value float64) Predicate { return predicate("number.gt", path, value) }

// LessThan matches numbers below value.
func LessThan(path string, value float64) Predicate { return predicate("number.lt", path, value) }

// InRange matches numbers between lower and upper.
func InRange(path string, lower, upper float64) Predicate {
	return predicate("number.inRange", path, lower, upper)
}

// DateBefore matches dates before the given one (a date string or epoch
// milliseconds).
func DateBefore(path string, date any) Predicate { return predicate("date.before", path, date) }

// DateAfter matches dates after the given one.
func DateAfter(path string, date any) Predicate { return predicate("date.after", path, date) }

// DateBetween matches dates between start and end.
func DateBetween(path string, start, end any) Predicate {
	return predicate("date.between", path, start, end)
}

// DayOfMonth matches a day of the month.
func DayOfMonth(path string, day int) Predicate { return predicate("date.day-of-month", path, day) }

// DayOfMonthAfter matches days of the month after day.
func DayOfMonthAfter(path string, day int) Predicate {
	return predicate("date.day-of-month-after", path, day)
}

// DayOfMonthBefore matches days of the month before day.
func DayOfMonthBefore(path string, day int) Predicate {
	return predicate("date.day-of-month-before", path, day)
}

// DayOfWeek matches a day of the week, by number or English name.
func DayOfWeek(path string, day any) Predicate { return predicate("date.day-of-week", path, day) }

// DayOfWeekAfter matches days of the week after day.
func DayOfWeekAfter(path string, day any) Predicate {
	return predicate("date.day-of-week-after", path, day)
}

// DayOfWeekBefore matches days of the week before day.
func DayOfWeekBefore(path string, day any) Predicate {
	return predicate("date.day-of-week-before", path, day)
}

// Month matches a month, by number or English name.
func Month(path string, month any) Predicate { return predicate("date.month", path, month) }

// MonthBefore matches months before month.
func MonthBefore(path string, month any) Predicate { return predicate("date.month-before", path, month) }

// MonthAfter matches months after month.
func MonthAfter(path string, month any) Predicate { return predicate("date.month-after", path, month) }

// Year matches a year.
func Year(path string, year int) Predicate { return predicate("date.year", path, year) }

// Hour matches an hour of the day.
func Hour(path string, hour int) Predicate { return predicate("date.hour", path, hour) }

// HourBefore matches hours before hour.
func HourBefore(path string, hour int) Predicate { return predicate("date.hour-before", path, hour) }

// HourAfter matches hours after hour.
func HourAfter(path string, hour int) Predicate { return predicate("date.hour-after", path, hour) }

// Near matches geopoints within radius kilometers of a location.
func Near(path string, latitude, longitude float64, radius int) Predicate {
	return predicate("geopoint.near", path, latitude, longitude, radius)
}
