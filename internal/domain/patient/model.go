package patient

import "github.com/ehr/hospital/internal/platform/gateway"

// Table is the remote table holding patient records.
const Table = "patients"

// Column names of the patients table.
const (
	ColID                = "patient_id"
	ColFirstName         = "patient_first_name"
	ColLastName          = "patient_last_name"
	ColAge               = "age"
	ColGender            = "gender"
	ColHeight            = "height"
	ColWeight            = "weight"
	ColAllergies         = "allergies"
	ColAddress           = "address"
	ColInsuranceProvider = "insurance_provider"
)

// Patient maps to the patients table. Height is in centimetres and weight in
// kilograms.
type Patient struct {
	ID                int64   `db:"patient_id" json:"patient_id"`
	FirstName         string  `db:"patient_first_name" json:"patient_first_name"`
	LastName          string  `db:"patient_last_name" json:"patient_last_name"`
	Age               int     `db:"age" json:"age"`
	Gender            string  `db:"gender" json:"gender"`
	Height            float64 `db:"height" json:"height"`
	Weight            float64 `db:"weight" json:"weight"`
	Allergies         string  `db:"allergies" json:"allergies"`
	Address           string  `db:"address" json:"address"`
	InsuranceProvider *string `db:"insurance_provider" json:"insurance_provider,omitempty"`
}

// Summary is the identifier and name projection used by visit intake.
type Summary struct {
	ID        int64  `db:"patient_id" json:"patient_id"`
	FirstName string `db:"patient_first_name" json:"patient_first_name"`
	LastName  string `db:"patient_last_name" json:"patient_last_name"`
}

// row returns the writable columns. The identifier is generated by the store.
func (p *Patient) row() gateway.Row {
	r := gateway.Row{
		ColFirstName: p.FirstName,
		ColLastName:  p.LastName,
		ColAge:       p.Age,
		ColGender:    p.Gender,
		ColHeight:    p.Height,
		ColWeight:    p.Weight,
		ColAllergies: p.Allergies,
		ColAddress:   p.Address,
	}
	if p.InsuranceProvider != nil {
		r[ColInsuranceProvider] = *p.InsuranceProvider
	} else {
		r[ColInsuranceProvider] = nil
	}
	return r
}
