package flow

import (
	"time"

	"aircare/utils"
)

// CheckSlot validates an ISO date and HH:MM slot and rejects slots that
// have already started in Singapore time.
func CheckSlot(date, slot string, now time.Time) error {
	day, err := time.ParseInLocation("2006-01-02", date, utils.Singapore)
	if err != nil {
		return ErrInvalidDate
	}
	start, err := time.Parse("15:04", slot)
	if err != nil {
		return ErrInvalidSlot
	}
	at := day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
	if !at.After(now.In(utils.Singapore)) {
		return ErrPastSlot
	}
	return nil
}
