package main

import "log"

// ComputeVariances derives the signed day drift for every recognized
// milestone pair on a project. A pair is skipped when either side is
// absent (sentinel) or when the drift is zero. A malformed date excludes
// only its own field; the remaining pairs are still processed.
func ComputeVariances(p Project, pairs []FieldPair) []Variance {
	var out []Variance
	for _, pair := range pairs {
		baselineRaw := normalizeDateValue(pair.Baseline(p))
		currentRaw := normalizeDateValue(pair.Current(p))
		if baselineRaw == "" || currentRaw == "" {
			continue
		}

		baseline, err := parseProjectDate(baselineRaw)
		if err != nil {
			log.Printf("variance skip project=%s field=%s baseline=%q: %v", p.ProjectNumber, pair.Name, baselineRaw, err)
			continue
		}
		current, err := parseProjectDate(currentRaw)
		if err != nil {
			log.Printf("variance skip project=%s field=%s current=%q: %v", p.ProjectNumber, pair.Name, currentRaw, err)
			continue
		}

		days := daysBetween(baseline, current)
		if days == 0 {
			continue
		}
		out = append(out, Variance{
			Field:          pair.Name,
			DisplayName:    pair.DisplayName,
			BaselineDate:   baseline,
			CurrentDate:    current,
			DaysDifference: days,
			IsDelayed:      days > 0,
		})
	}
	return out
}

// MaxDelayDays returns the largest positive drift in the set, or 0.
func MaxDelayDays(variances []Variance) int {
	max := 0
	for _, v := range variances {
		if v.DaysDifference > max {
			max = v.DaysDifference
		}
	}
	return max
}

// SplitDelayedAdvanced counts the delayed and advanced variances.
func SplitDelayedAdvanced(variances []Variance) (delayed, advanced int) {
	for _, v := range variances {
		if v.IsDelayed {
			delayed++
		} else {
			advanced++
		}
	}
	return delayed, advanced
}
