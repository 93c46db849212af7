package types

import "time"

// DateLayout формат календарной даты YYYY-MM-DD
const DateLayout = "2006-01-02"

// DateOf возвращает календарную дату t (в её локации) как полночь UTC.
// Все даты в сервисе хранятся в таком нормализованном виде.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate разбирает дату формата YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays сдвигает нормализованную дату на n календарных дней
func AddDays(date time.Time, n int) time.Time {
	return DateOf(date).AddDate(0, 0, n)
}
