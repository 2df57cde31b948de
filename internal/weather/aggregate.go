package weather

import "time"

// MaxDailyForecasts caps the daily summary at one calendar week.
const MaxDailyForecasts = 7

// MaxHourlySamples caps the near-term slice at ~24h of 3-hour samples.
const MaxHourlySamples = 8

// BucketByDay groups a chronological sample sequence into per-day
// summaries. The day key is the sample's calendar date in loc; buckets
// appear in first-seen order, which for chronological input is
// chronological. The first sample of a day seeds the bucket's min/max,
// condition and representative timestamp; later samples only widen the
// min/max. Empty input yields an empty result.
func BucketByDay(samples []Sample, loc *time.Location) []DailyForecast {
	if loc == nil {
		loc = time.Local
	}

	buckets := make(map[string]int, MaxDailyForecasts)
	var days []DailyForecast

	for _, s := range samples {
		key := time.Unix(s.Timestamp, 0).In(loc).Format("2006-01-02")

		i, ok := buckets[key]
		if !ok {
			buckets[key] = len(days)
			days = append(days, DailyForecast{
				DateKey:   key,
				Timestamp: s.Timestamp,
				TempMaxC:  s.TempMaxC,
				TempMinC:  s.TempMinC,
				Condition: s.Condition,
			})
			continue
		}

		if s.TempMaxC > days[i].TempMaxC {
			days[i].TempMaxC = s.TempMaxC
		}
		if s.TempMinC < days[i].TempMinC {
			days[i].TempMinC = s.TempMinC
		}
	}

	return days
}

// TakeHourly returns the input prefix of up to maxCount samples,
// unmodified and in original order. A maxCount <= 0 falls back to
// MaxHourlySamples.
func TakeHourly(samples []Sample, maxCount int) []Sample {
	if maxCount <= 0 {
		maxCount = MaxHourlySamples
	}
	if len(samples) <= maxCount {
		return samples
	}
	return samples[:maxCount]
}
