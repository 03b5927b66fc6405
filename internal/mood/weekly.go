package mood

import "time"

// BlockSize is the number of daily entries that complete one weekly block.
const BlockSize = 7

// rescale maps a 1-5 self-report score onto the 0-3 clinical severity scale.
// Out-of-range input cannot occur for persisted entries (validation rejects
// it), but the mapping is total anyway: values clamp to the nearest bound.
func rescale(v int) int {
	switch {
	case v <= 1:
		return 0
	case v == 2, v == 3:
		return 1
	case v == 4:
		return 2
	default:
		return 3
	}
}

// DassSample is one entry's contribution to the weekly totals, with the date
// the entry is attributed to.
type DassSample struct {
	Date       time.Time
	Depression int
	Anxiety    int
	Stress     int
}

// WeeklyTotals are the rescaled DASS sub-scale totals for one 7-entry block,
// projected onto the 0-42 clinical total convention (sum of 7 rescaled
// scores, doubled).
type WeeklyTotals struct {
	WeekStart  string
	WeekEnd    string
	Depression int
	Anxiety    int
	Stress     int
}

// ISODate is the date layout used for week windows.
const ISODate = "2006-01-02"

// Aggregate computes the weekly totals over exactly BlockSize samples.
// The week window is the min/max of the sample dates (inclusive). The bool
// result is false when the sample count is wrong; partial blocks are never
// aggregated.
func Aggregate(samples []DassSample) (WeeklyTotals, bool) {
	if len(samples) != BlockSize {
		return WeeklyTotals{}, false
	}

	var dep, anx, str int
	minDate, maxDate := samples[0].Date, samples[0].Date
	for _, s := range samples {
		dep += rescale(s.Depression)
		anx += rescale(s.Anxiety)
		str += rescale(s.Stress)
		if s.Date.Before(minDate) {
			minDate = s.Date
		}
		if s.Date.After(maxDate) {
			maxDate = s.Date
		}
	}

	return WeeklyTotals{
		WeekStart:  minDate.Format(ISODate),
		WeekEnd:    maxDate.Format(ISODate),
		Depression: dep * 2,
		Anxiety:    anx * 2,
		Stress:     str * 2,
	}, true
}
