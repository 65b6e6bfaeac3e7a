package telemetry

import "sort"

// DailyTotals groups samples by exact date-string equality and sums energy
// and production per group. The result carries one entry per distinct date,
// ascending; dates with no samples are simply absent. Lexicographic order is
// chronological because dates are ISO formatted.
func DailyTotals(samples []Sample) []DailyTotal {
	type acc struct {
		energy     float64
		production float64
	}
	grouped := make(map[string]*acc)
	for _, s := range samples {
		a, ok := grouped[s.Date]
		if !ok {
			a = &acc{}
			grouped[s.Date] = a
		}
		a.energy += s.Energy
		a.production += s.Production
	}

	dates := make([]string, 0, len(grouped))
	for date := range grouped {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	totals := make([]DailyTotal, 0, len(dates))
	for _, date := range dates {
		a := grouped[date]
		totals = append(totals, DailyTotal{
			Date:            date,
			TotalEnergy:     a.energy,
			TotalProduction: a.production,
		})
	}
	return totals
}

// SEC is specific energy consumption: total energy per unit of production
// across the given samples, in MWh/bbl. Zero production yields zero rather
// than a division error.
func SEC(samples []Sample) float64 {
	var energy, production float64
	for _, s := range samples {
		energy += s.Energy
		production += s.Production
	}
	if production == 0 {
		return 0
	}
	return energy / production
}

// UnitSEC restricts SEC to one unit's samples.
func UnitSEC(samples []Sample, unitID string) float64 {
	var subset []Sample
	for _, s := range samples {
		if s.UnitID == unitID {
			subset = append(subset, s)
		}
	}
	return SEC(subset)
}

// FleetEfficiency is the load-weighted mean efficiency of units that are
// actually running. Offline units are excluded; maintenance units carry no
// display load so they drop out of the weighting too.
func FleetEfficiency(units []RefineryUnit) float64 {
	var weighted, totalLoad float64
	var sum float64
	var count int
	for _, u := range units {
		if u.Status == StatusOffline {
			continue
		}
		load := u.DisplayLoadRatio() * u.Capacity
		weighted += u.Efficiency * load
		totalLoad += load
		sum += u.Efficiency
		count++
	}
	if totalLoad > 0 {
		return weighted / totalLoad
	}
	if count > 0 {
		return sum / float64(count)
	}
	return 0
}

// Summary condenses the sample set for the KPI snapshot endpoint.
type Summary struct {
	TotalEnergy    float64 `json:"totalEnergy"`
	AvgDailyEnergy float64 `json:"avgDailyEnergy"`
	AvgSEC         float64 `json:"avgSec"`
	Days           int     `json:"days"`
}

func Summarize(samples []Sample) Summary {
	totals := DailyTotals(samples)
	var sum Summary
	for _, t := range totals {
		sum.TotalEnergy += t.TotalEnergy
	}
	sum.Days = len(totals)
	if sum.Days > 0 {
		sum.AvgDailyEnergy = sum.TotalEnergy / float64(sum.Days)
	}
	sum.AvgSEC = SEC(samples)
	return sum
}
