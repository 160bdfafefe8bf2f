package adapter

import "time"

// dateLayouts — форматы дат, встречающиеся в ответах бэкенда. Легаси-записи
// приходят без зоны и с пробелом вместо "T".
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate разбирает дату бэкенда в любом из известных форматов.
// При неудаче возвращает нулевое время и false, никогда не паникует.
func ParseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDatePtr — то же для опциональных полей.
func parseDatePtr(raw *string) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	return ParseDate(*raw)
}
