package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DayLayout é o formato textual de um dia comercial
const DayLayout = "2006-01-02"

var (
	ErrInvalidDay      = errors.New("dia comercial inválido")
	ErrInvalidTimezone = errors.New("fuso horário inválido")
)

// Day representa o dia comercial (data civil no fuso do restaurante),
// independente de UTC
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay cria um dia comercial a partir de ano, mês e dia
func NewDay(year int, month time.Month, day int) Day {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// DayOf retorna o dia comercial de um instante no fuso informado
func DayOf(t time.Time, loc *time.Location) Day {
	local := t.In(loc)
	return Day{year: local.Year(), month: local.Month(), day: local.Day()}
}

// ParseDay interpreta um dia no formato AAAA-MM-DD
func ParseDay(value string) (Day, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %s", ErrInvalidDay, value)
	}
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// DayFromDate converte um valor DATE lido do banco
func DayFromDate(t time.Time) Day {
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// IsZero indica se o dia não foi informado
func (d Day) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// String formata o dia como AAAA-MM-DD
func (d Day) String() string {
	return d.Date().Format(DayLayout)
}

// Date retorna a meia-noite UTC do dia, usada como valor DATE no banco
func (d Day) Date() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Before indica se o dia é anterior a outro
func (d Day) Before(other Day) bool {
	return d.Date().Before(other.Date())
}

// At retorna o instante deste dia com o horário e o fuso de t
func (d Day) At(t time.Time) time.Time {
	return time.Date(d.year, d.month, d.day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Weekday retorna o dia da semana
func (d Day) Weekday() time.Weekday {
	return d.Date().Weekday()
}

// MarshalJSON serializa o dia como "AAAA-MM-DD"
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON lê o dia no formato "AAAA-MM-DD"
func (d *Day) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := ParseDay(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock abstrai a hora atual para permitir testes determinísticos
type Clock interface {
	Now() time.Time
}

// SystemClock usa o relógio do sistema
type SystemClock struct{}

// Now implementa Clock
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock sempre retorna o mesmo instante
type FixedClock struct {
	At time.Time
}

// Now implementa Clock
func (c FixedClock) Now() time.Time {
	return c.At
}

// BusinessCalendar resolve o dia comercial e a hora local do restaurante
type BusinessCalendar struct {
	clock    Clock
	location *time.Location
}

// NewBusinessCalendar cria um calendário para o fuso informado
func NewBusinessCalendar(clock Clock, timezone string) (*BusinessCalendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, timezone)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &BusinessCalendar{clock: clock, location: loc}, nil
}

// Now retorna o instante atual no fuso do restaurante
func (c *BusinessCalendar) Now() time.Time {
	return c.clock.Now().In(c.location)
}

// Today retorna o dia comercial corrente
func (c *BusinessCalendar) Today() Day {
	return DayOf(c.clock.Now(), c.location)
}

// Location retorna o fuso do restaurante
func (c *BusinessCalendar) Location() *time.Location {
	return c.location
}
