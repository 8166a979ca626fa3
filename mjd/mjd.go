// Package mjd converts between calendar dates and Modified Julian Date
// day numbers, the time convention of the station record contract.
package mjd

import (
	"time"
)

// MJD 0 is 1858-11-17 00:00 UTC.
var epoch = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)

// FromTime returns the MJD day number containing t.
func FromTime(t time.Time) int {
	d := t.UTC().Sub(epoch)
	return int(d.Hours() / 24)
}

// FromDate returns the MJD day number of a calendar date.
func FromDate(year int, month time.Month, day int) int {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ToTime returns midnight UTC of the given MJD day number.
func ToTime(m int) time.Time {
	return epoch.AddDate(0, 0, m)
}

// Parse converts a date string in the given time layout to an MJD day
// number.
func Parse(value, layout string) (int, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return 0, err
	}
	return FromTime(t), nil
}
