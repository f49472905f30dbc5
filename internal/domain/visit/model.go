package visit

import (
	"time"

	"github.com/ehr/hospital/internal/platform/gateway"
)

// Table is the remote table holding visit records.
const Table = "visits"

// Column names of the visits table.
const (
	ColID                   = "record_id"
	ColPatientID            = "patient_id"
	ColDoctorID             = "doctor_id"
	ColAdmissionType        = "admission_type"
	ColVisitDate            = "visit_date"
	ColRoomNumber           = "room_number"
	ColSymptoms             = "symptoms"
	ColTests                = "tests"
	ColDiagnosisNotes       = "diagnosis_notes"
	ColPrescription         = "prescription"
	ColPaymentAmount        = "payment_amount"
	ColPaymentMethod        = "payment_method"
	ColPaymentInvoiceNumber = "payment_invoice_number"
)

// Admission types.
var AdmissionTypes = []string{"Inpatient", "Outpatient"}

// Payment methods accepted at intake.
var PaymentMethods = []string{"Cash", "Credit Card", "Debit Card", "Insurance", "Medicare"}

// Visit maps to the visits table. Visits are never deleted; when a doctor is
// removed their visits move to the sentinel doctor.
type Visit struct {
	ID                   int64     `db:"record_id" json:"record_id"`
	PatientID            int64     `db:"patient_id" json:"patient_id"`
	DoctorID             int64     `db:"doctor_id" json:"doctor_id"`
	AdmissionType        string    `db:"admission_type" json:"admission_type"`
	VisitDate            time.Time `db:"visit_date" json:"visit_date"`
	RoomNumber           string    `db:"room_number" json:"room_number"`
	Symptoms             string    `db:"symptoms" json:"symptoms"`
	Tests                string    `db:"tests" json:"tests"`
	DiagnosisNotes       string    `db:"diagnosis_notes" json:"diagnosis_notes"`
	Prescription         string    `db:"prescription" json:"prescription"`
	PaymentAmount        float64   `db:"payment_amount" json:"payment_amount"`
	PaymentMethod        string    `db:"payment_method" json:"payment_method"`
	PaymentInvoiceNumber string    `db:"payment_invoice_number" json:"payment_invoice_number"`
}

func (v *Visit) row() gateway.Row {
	return gateway.Row{
		ColPatientID:            v.PatientID,
		ColDoctorID:             v.DoctorID,
		ColAdmissionType:        v.AdmissionType,
		ColVisitDate:            v.VisitDate.Format(gateway.DateLayout),
		ColRoomNumber:           v.RoomNumber,
		ColSymptoms:             v.Symptoms,
		ColTests:                v.Tests,
		ColDiagnosisNotes:       v.DiagnosisNotes,
		ColPrescription:         v.Prescription,
		ColPaymentAmount:        v.PaymentAmount,
		ColPaymentMethod:        v.PaymentMethod,
		ColPaymentInvoiceNumber: v.PaymentInvoiceNumber,
	}
}

// ClinicalNotes are the fields editable after intake.
type ClinicalNotes struct {
	Symptoms       string `json:"symptoms"`
	Tests          string `json:"tests"`
	DiagnosisNotes string `json:"diagnosis_notes"`
	Prescription   string `json:"prescription"`
}

func (n ClinicalNotes) row() gateway.Row {
	return gateway.Row{
		ColSymptoms:       n.Symptoms,
		ColTests:          n.Tests,
		ColDiagnosisNotes: n.DiagnosisNotes,
		ColPrescription:   n.Prescription,
	}
}

// Detail is a visit with the patient and doctor names resolved. Names are
// empty when the referenced row does not exist.
type Detail struct {
	RecordID         int64  `json:"record_id"`
	PatientFirstName string `json:"patient_first_name"`
	PatientLastName  string `json:"patient_last_name"`
	DoctorName       string `json:"doctor_name"`
	Symptoms         string `json:"symptoms"`
	Tests            string `json:"tests"`
	DiagnosisNotes   string `json:"diagnosis_notes"`
	Prescription     string `json:"prescription"`
}

// Intake is one visit form submitted for one or more patients. VisitDate is
// YYYY-MM-DD; blank means today.
type Intake struct {
	PatientIDs           []int64 `json:"patient_ids"`
	DoctorID             int64   `json:"doctor_id"`
	AdmissionType        string  `json:"admission_type"`
	VisitDate            string  `json:"visit_date"`
	RoomNumber           string  `json:"room_number"`
	Symptoms             string  `json:"symptoms"`
	Tests                string  `json:"tests"`
	DiagnosisNotes       string  `json:"diagnosis_notes"`
	Prescription         string  `json:"prescription"`
	PaymentAmount        float64 `json:"payment_amount"`
	PaymentMethod        string  `json:"payment_method"`
	PaymentInvoiceNumber string  `json:"payment_invoice_number"`
}
