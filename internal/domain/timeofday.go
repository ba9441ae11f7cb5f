package domain

import "time"

// TimeOfDay описывает часть суток получения письма.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "Morning"
	TimeOfDayAfternoon TimeOfDay = "Afternoon"
	TimeOfDayEvening   TimeOfDay = "Evening"
)

// TimeOfDayForHour возвращает часть суток по локальному часу письма.
// Границы намеренно несимметричные: "Morning" охватывает вечер с 21:00 и
// утро до 10:00. Потребители сохранённых результатов зависят от этой
// разметки, менять её нельзя.
func TimeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour >= 21 || hour < 10:
		return TimeOfDayMorning
	case hour < 15:
		return TimeOfDayAfternoon
	default:
		return TimeOfDayEvening
	}
}

// TimeOfDayFor возвращает часть суток для момента получения письма
// в локальной таймзоне процесса.
func TimeOfDayFor(t time.Time) TimeOfDay {
	return TimeOfDayForHour(t.Local().Hour())
}
