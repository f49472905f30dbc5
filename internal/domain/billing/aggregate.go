package billing

import (
	"math"
	"sort"
	"strconv"

	"github.com/ehr/hospital/internal/domain/doctor"
	"github.com/ehr/hospital/internal/domain/patient"
	"github.com/ehr/hospital/internal/domain/visit"
	"github.com/ehr/hospital/internal/platform/gateway"
	"github.com/ehr/hospital/internal/platform/join"
)

// HistogramBins is the bucket count of the age histogram.
const HistogramBins = 10

// rankDepartments inner-joins visits to doctors on doctor_id, sums the
// payment per department and keeps the n largest. Ties are broken by
// department name.
func rankDepartments(visits []*visit.Visit, doctors []*doctor.Doctor, n int) DepartmentRanking {
	joined := join.Inner(visits, doctors,
		func(v *visit.Visit) int64 { return v.DoctorID },
		func(d *doctor.Doctor) int64 { return d.ID },
	)

	totals := make(map[string]float64)
	for _, p := range joined.Pairs {
		totals[(*p.Right).Department] += p.Left.PaymentAmount
	}

	ranked := make([]DepartmentTotal, 0, len(totals))
	for dept, total := range totals {
		ranked = append(ranked, DepartmentTotal{Department: dept, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Department < ranked[j].Department })
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return DepartmentRanking{Departments: ranked, UnmatchedVisits: joined.Unmatched}
}

func totalRevenue(visits []*visit.Visit) float64 {
	var sum float64
	for _, v := range visits {
		sum += v.PaymentAmount
	}
	return sum
}

func revenueOverTime(visits []*visit.Visit) []DatePoint {
	byDate := make(map[string]float64)
	for _, v := range visits {
		byDate[v.VisitDate.Format(gateway.DateLayout)] += v.PaymentAmount
	}
	points := make([]DatePoint, 0, len(byDate))
	for date, total := range byDate {
		points = append(points, DatePoint{Date: date, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// countLabels counts each non-empty label, most frequent first and ties by
// label.
func countLabels(labels []string) []Count {
	counts := make(map[string]int)
	for _, l := range labels {
		if l != "" {
			counts[l]++
		}
	}
	out := make([]Count, 0, len(counts))
	for l, n := range counts {
		out = append(out, Count{Label: l, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func paymentMethods(visits []*visit.Visit) []Count {
	labels := make([]string, len(visits))
	for i, v := range visits {
		labels[i] = v.PaymentMethod
	}
	return countLabels(labels)
}

func admissionTypes(visits []*visit.Visit) []Count {
	labels := make([]string, len(visits))
	for i, v := range visits {
		labels[i] = v.AdmissionType
	}
	return countLabels(labels)
}

func insuranceProviders(patients []*patient.Patient) []Count {
	labels := make([]string, 0, len(patients))
	for _, p := range patients {
		if p.InsuranceProvider != nil {
			labels = append(labels, *p.InsuranceProvider)
		}
	}
	return countLabels(labels)
}

func ageDistribution(patients []*patient.Patient) AgeDistribution {
	ages := make([]float64, len(patients))
	for i, p := range patients {
		ages[i] = float64(p.Age)
	}
	return AgeDistribution{Stats: describe(ages), Histogram: histogram(ages, HistogramBins)}
}

// describe computes count, mean, sample standard deviation, extremes and
// quartiles. Quartiles interpolate linearly between closest ranks.
func describe(values []float64) Stats {
	n := len(values)
	if n == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var std float64
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return Stats{
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		P25:   percentile(sorted, 0.25),
		P50:   percentile(sorted, 0.50),
		P75:   percentile(sorted, 0.75),
		Max:   sorted[n-1],
	}
}

func percentile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// histogram splits [min, max] into equal-width bins. A single distinct value
// is widened to [v-0.5, v+0.5].
func histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return []Bin{}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

func formatRange(lo, hi float64) string {
	return strconv.FormatFloat(lo, 'f', 1, 64) + "-" + strconv.FormatFloat(hi, 'f', 1, 64)
}
