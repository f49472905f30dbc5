package billing

// ChartKind names how a chart is drawn.
type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartLine      ChartKind = "line"
	ChartHistogram ChartKind = "histogram"
)

// Chart describes a plot. Drawing is left to the client; Labels and Values
// are parallel.
type Chart struct {
	Kind   ChartKind `json:"kind" yaml:"kind"`
	Title  string    `json:"title" yaml:"title"`
	XLabel string    `json:"x_label" yaml:"x_label"`
	YLabel string    `json:"y_label" yaml:"y_label"`
	Labels []string  `json:"labels" yaml:"labels"`
	Values []float64 `json:"values" yaml:"values"`
}

func departmentChart(r DepartmentRanking) Chart {
	c := Chart{Kind: ChartBar, Title: "Total Billing Amount by Department", XLabel: "Department", YLabel: "Total Billing Amount"}
	for _, d := range r.Departments {
		c.Labels = append(c.Labels, d.Department)
		c.Values = append(c.Values, d.Total)
	}
	return c
}

func revenueChart(points []DatePoint) Chart {
	c := Chart{Kind: ChartLine, Title: "Total Revenue Over Time", XLabel: "Date", YLabel: "Total Revenue"}
	for _, p := range points {
		c.Labels = append(c.Labels, p.Date)
		c.Values = append(c.Values, p.Total)
	}
	return c
}

func countChart(title, xLabel, yLabel string, counts []Count) Chart {
	c := Chart{Kind: ChartBar, Title: title, XLabel: xLabel, YLabel: yLabel}
	for _, n := range counts {
		c.Labels = append(c.Labels, n.Label)
		c.Values = append(c.Values, float64(n.Count))
	}
	return c
}

func ageChart(bins []Bin) Chart {
	c := Chart{Kind: ChartHistogram, Title: "Distribution of Patient Ages", XLabel: "Age", YLabel: "Frequency"}
	for _, b := range bins {
		c.Labels = append(c.Labels, formatRange(b.Lower, b.Upper))
		c.Values = append(c.Values, float64(b.Count))
	}
	return c
}
