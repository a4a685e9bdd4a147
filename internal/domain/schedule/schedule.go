package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// SlotMinutes is the width of every offerable slot.
const SlotMinutes = 30

type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Day struct {
	Active bool    `json:"active"`
	Ranges []Range `json:"ranges"`
}

// WeeklySchedule is a professional's recurring availability, one entry per weekday.
type WeeklySchedule struct {
	Monday    Day `json:"monday"`
	Tuesday   Day `json:"tuesday"`
	Wednesday Day `json:"wednesday"`
	Thursday  Day `json:"thursday"`
	Friday    Day `json:"friday"`
	Saturday  Day `json:"saturday"`
	Sunday    Day `json:"sunday"`
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func (w WeeklySchedule) Day(wd time.Weekday) Day {
	switch wd {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

func (w *WeeklySchedule) SetDay(wd time.Weekday, d Day) {
	switch wd {
	case time.Monday:
		w.Monday = d
	case time.Tuesday:
		w.Tuesday = d
	case time.Wednesday:
		w.Wednesday = d
	case time.Thursday:
		w.Thursday = d
	case time.Friday:
		w.Friday = d
	case time.Saturday:
		w.Saturday = d
	default:
		w.Sunday = d
	}
}

// Validate checks every configured range: HH:MM format, start before end
// and no two ranges of the same weekday overlapping.
func (w WeeklySchedule) Validate() error {
	var details []httperr.FieldError

	for _, wd := range weekOrder {
		name := weekdayNames[wd]
		day := w.Day(wd)

		type span struct {
			idx        int
			start, end Clock
		}
		var spans []span

		for i, r := range day.Ranges {
			field := fmt.Sprintf("%s.ranges[%d]", name, i)

			start, err := ParseClock(r.Start)
			if err != nil {
				details = append(details, httperr.FieldError{Field: field + ".start", Message: "Hora inválida, formato HH:MM"})
				continue
			}
			end, err := ParseClock(r.End)
			if err != nil {
				details = append(details, httperr.FieldError{Field: field + ".end", Message: "Hora inválida, formato HH:MM"})
				continue
			}
			if start >= end {
				details = append(details, httperr.FieldError{Field: field, Message: "La hora de inicio debe ser anterior a la de fin"})
				continue
			}
			spans = append(spans, span{idx: i, start: start, end: end})
		}

		sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
		for i := 1; i < len(spans); i++ {
			if Overlaps(spans[i-1].start, spans[i-1].end, spans[i].start, spans[i].end) {
				details = append(details, httperr.FieldError{
					Field:   fmt.Sprintf("%s.ranges[%d]", name, spans[i].idx),
					Message: "El rango se superpone con otro del mismo día",
				})
			}
		}
	}

	if len(details) > 0 {
		return httperr.ErrValidation("Horario de atención inválido.", details...)
	}
	return nil
}

// Slots expands the ranges of the date's weekday into 30 minute start labels.
// A trailing partial slot is dropped. The bool is false when the weekday is
// inactive or has no ranges.
func Slots(w WeeklySchedule, date time.Time) ([]string, bool) {
	day := w.Day(date.Weekday())
	if !day.Active || len(day.Ranges) == 0 {
		return []string{}, false
	}

	slots := []string{}
	for _, r := range day.Ranges {
		start, err := ParseClock(r.Start)
		if err != nil {
			continue
		}
		end, err := ParseClock(r.End)
		if err != nil {
			continue
		}
		for cur := start; cur.Add(SlotMinutes) <= end; cur = cur.Add(SlotMinutes) {
			slots = append(slots, cur.String())
		}
	}
	return slots, true
}

// Covers reports whether [start,end) fits inside a single range of the
// date's weekday.
func Covers(w WeeklySchedule, date time.Time, start, end Clock) bool {
	day := w.Day(date.Weekday())
	if !day.Active {
		return false
	}
	for _, r := range day.Ranges {
		rs, err := ParseClock(r.Start)
		if err != nil {
			continue
		}
		re, err := ParseClock(r.End)
		if err != nil {
			continue
		}
		if start >= rs && end <= re {
			return true
		}
	}
	return false
}
