package doctor

import "github.com/ehr/hospital/internal/platform/gateway"

// Table is the remote table holding the doctor roster.
const Table = "doctors"

// Column names of the doctors table.
const (
	ColID         = "doctor_id"
	ColName       = "doctor_name"
	ColSpecialty  = "doctor_specialty"
	ColDepartment = "doctor_department"
)

// DefaultSentinelName is the placeholder doctor that inherits the visits of
// removed doctors in stores that predate SENTINEL_DOCTOR_ID.
const DefaultSentinelName = "Dr. Temp"

// Doctor maps to the doctors table.
type Doctor struct {
	ID         int64  `db:"doctor_id" json:"doctor_id"`
	Name       string `db:"doctor_name" json:"doctor_name"`
	Specialty  string `db:"doctor_specialty" json:"doctor_specialty"`
	Department string `db:"doctor_department" json:"doctor_department"`
}

func (d *Doctor) row() gateway.Row {
	return gateway.Row{
		ColName:       d.Name,
		ColSpecialty:  d.Specialty,
		ColDepartment: d.Department,
	}
}

// DeletionReport describes the outcome of a batch removal. On failure it is
// returned together with the error: Deleted lists the doctors that are gone,
// FailedID the doctor being processed when the error occurred and Remaining
// every selected doctor that still exists.
type DeletionReport struct {
	SentinelID       int64   `json:"sentinel_id"`
	Deleted          []int64 `json:"deleted"`
	ReassignedVisits int64   `json:"reassigned_visits"`
	FailedID         *int64  `json:"failed_id,omitempty"`
	Remaining        []int64 `json:"remaining,omitempty"`
}
