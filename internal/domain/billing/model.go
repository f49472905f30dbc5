package billing

import "github.com/ehr/hospital/internal/domain/visit"

// InvoiceColumns is the visit projection shown on the invoice listing.
var InvoiceColumns = []string{
	visit.ColID,
	visit.ColPatientID,
	visit.ColVisitDate,
	visit.ColRoomNumber,
	visit.ColTests,
	visit.ColPaymentAmount,
	visit.ColPaymentMethod,
}

// Invoice is one billed visit.
type Invoice struct {
	RecordID      int64   `json:"record_id"`
	PatientID     int64   `json:"patient_id"`
	VisitDate     string  `json:"visit_date"`
	RoomNumber    string  `json:"room_number"`
	Tests         string  `json:"tests"`
	PaymentAmount float64 `json:"payment_amount"`
	PaymentMethod string  `json:"payment_method"`
}

// DepartmentTotal is the billed amount of one department.
type DepartmentTotal struct {
	Department string  `json:"department" yaml:"department"`
	Total      float64 `json:"total" yaml:"total"`
}

// DepartmentRanking lists departments by billed amount. UnmatchedVisits
// counts visits whose doctor no longer exists and so could not be
// attributed to a department.
type DepartmentRanking struct {
	Departments     []DepartmentTotal `json:"departments" yaml:"departments"`
	UnmatchedVisits int               `json:"unmatched_visits" yaml:"unmatched_visits"`
}

// DatePoint is revenue billed on one visit date.
type DatePoint struct {
	Date  string  `json:"date" yaml:"date"`
	Total float64 `json:"total" yaml:"total"`
}

// Count is the number of rows carrying a label.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Bin is one histogram bucket covering [Lower, Upper). The last bucket also
// includes Upper.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Stats summarises a numeric column.
type Stats struct {
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Min   float64 `json:"min" yaml:"min"`
	P25   float64 `json:"p25" yaml:"p25"`
	P50   float64 `json:"p50" yaml:"p50"`
	P75   float64 `json:"p75" yaml:"p75"`
	Max   float64 `json:"max" yaml:"max"`
}

// AgeDistribution describes patient ages.
type AgeDistribution struct {
	Stats     Stats `json:"stats" yaml:"stats"`
	Histogram []Bin `json:"histogram" yaml:"histogram"`
}

// Dashboard bundles every billing view with the charts that render them.
type Dashboard struct {
	TotalRevenue       float64           `json:"total_revenue" yaml:"total_revenue"`
	TopDepartments     DepartmentRanking `json:"top_departments" yaml:"top_departments"`
	RevenueOverTime    []DatePoint       `json:"revenue_over_time" yaml:"revenue_over_time"`
	PaymentMethods     []Count           `json:"payment_methods" yaml:"payment_methods"`
	AdmissionTypes     []Count           `json:"admission_types" yaml:"admission_types"`
	InsuranceProviders []Count           `json:"insurance_providers" yaml:"insurance_providers"`
	Ages               AgeDistribution   `json:"ages" yaml:"ages"`
	Charts             []Chart           `json:"charts" yaml:"charts"`
}
