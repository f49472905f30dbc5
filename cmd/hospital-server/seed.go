package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/ehr/hospital/internal/config"
	"github.com/ehr/hospital/internal/domain/doctor"
	"github.com/ehr/hospital/internal/domain/patient"
	"github.com/ehr/hospital/internal/domain/visit"
	"github.com/ehr/hospital/internal/platform/gateway"
)

type seedOptions struct {
	Patients int
	Doctors  int
	Visits   int
	Seed     int64
}

type seedResult struct {
	Sentinel *doctor.Doctor
	Patients int
	Doctors  int
	Visits   int
}

var seedRoster = []struct {
	Department string
	Specialty  string
}{
	{"Cardiology", "Interventional Cardiology"},
	{"Neurology", "Neurophysiology"},
	{"Orthopedics", "Sports Medicine"},
	{"Pediatrics", "Neonatology"},
	{"Oncology", "Medical Oncology"},
	{"Emergency", "Emergency Medicine"},
	{"Radiology", "Diagnostic Radiology"},
}

var (
	seedInsurers      = []string{"Aetna", "Blue Cross", "Cigna", "Humana", "UnitedHealthcare"}
	seedAllergies     = []string{"None", "Penicillin", "Peanuts", "Latex", "Pollen", "Shellfish"}
	seedSymptoms      = []string{"Chest pain", "Headache", "Fever", "Shortness of breath", "Back pain", "Dizziness"}
	seedTests         = []string{"Blood panel", "ECG", "MRI", "X-ray", "CT scan", "Urinalysis"}
	seedPrescriptions = []string{"Ibuprofen 400mg", "Amoxicillin 500mg", "Metoprolol 50mg", "Rest and fluids", "None"}
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with generated patients, doctors and visits",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts seedOptions
			opts.Patients, _ = cmd.Flags().GetInt("patients")
			opts.Doctors, _ = cmd.Flags().GetInt("doctors")
			opts.Visits, _ = cmd.Flags().GetInt("visits")
			opts.Seed, _ = cmd.Flags().GetInt64("seed")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg, newLogger(cfg.Env, cfg.LogLevel))
			if err != nil {
				return err
			}
			defer a.close()

			res, err := seedStore(cmd.Context(), a, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d patients, %d doctors, %d visits (sentinel %q id %d)\n",
				res.Patients, res.Doctors, res.Visits, res.Sentinel.Name, res.Sentinel.ID)
			return nil
		},
	}
	cmd.Flags().Int("patients", 50, "Number of patients to create")
	cmd.Flags().Int("doctors", 10, "Number of doctors to create")
	cmd.Flags().Int("visits", 200, "Number of visits to create")
	cmd.Flags().Int64("seed", 0, "Random seed; 0 picks one")
	return cmd
}

// seedStore writes generated rows through the services, so every row passes
// the same validation as API input. Visits are spread over every patient and
// every non-sentinel doctor in the store, not only the ones created here.
func seedStore(ctx context.Context, a *app, opts seedOptions) (*seedResult, error) {
	if err := seedFaker(opts.Seed); err != nil {
		return nil, fmt.Errorf("seed generator: %w", err)
	}

	sentinel, err := a.ensureSentinel(ctx)
	if err != nil {
		return nil, err
	}
	res := &seedResult{Sentinel: sentinel}

	for i := 0; i < opts.Doctors; i++ {
		if err := a.doctors.CreateDoctor(ctx, fakeDoctor()); err != nil {
			return res, fmt.Errorf("seed doctor: %w", err)
		}
		res.Doctors++
	}
	for i := 0; i < opts.Patients; i++ {
		if err := a.patients.CreatePatient(ctx, fakePatient()); err != nil {
			return res, fmt.Errorf("seed patient: %w", err)
		}
		res.Patients++
	}
	if opts.Visits <= 0 {
		return res, nil
	}

	patientIDs, doctorIDs, err := seedPool(ctx, a, sentinel.ID)
	if err != nil {
		return res, err
	}
	now := time.Now().UTC()
	for i := 0; i < opts.Visits; i++ {
		in := fakeIntake(now)
		in.PatientIDs = []int64{patientIDs[gofakeit.Number(0, len(patientIDs)-1)]}
		in.DoctorID = doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
		if _, err := a.visits.CreateVisits(ctx, in); err != nil {
			return res, fmt.Errorf("seed visit: %w", err)
		}
		res.Visits++
	}
	return res, nil
}

// seedFaker makes generated data reproducible for a non-zero seed. Zero draws
// a fresh random seed.
func seedFaker(seed int64) error {
	if seed == 0 {
		return gofakeit.Seed()
	}
	return gofakeit.Seed(seed)
}

func seedPool(ctx context.Context, a *app, sentinelID int64) ([]int64, []int64, error) {
	patients, err := a.patients.ListPatients(ctx)
	if err != nil {
		return nil, nil, err
	}
	doctors, err := a.doctors.ListDoctors(ctx)
	if err != nil {
		return nil, nil, err
	}

	var patientIDs, doctorIDs []int64
	for _, p := range patients {
		patientIDs = append(patientIDs, p.ID)
	}
	for _, d := range doctors {
		if d.ID != sentinelID {
			doctorIDs = append(doctorIDs, d.ID)
		}
	}
	if len(patientIDs) == 0 || len(doctorIDs) == 0 {
		return nil, nil, errors.New("seed visits: need at least one patient and one non-sentinel doctor")
	}
	return patientIDs, doctorIDs, nil
}

func fakeDoctor() *doctor.Doctor {
	r := seedRoster[gofakeit.Number(0, len(seedRoster)-1)]
	return &doctor.Doctor{
		Name:       "Dr. " + gofakeit.FirstName() + " " + gofakeit.LastName(),
		Specialty:  r.Specialty,
		Department: r.Department,
	}
}

func fakePatient() *patient.Patient {
	p := &patient.Patient{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Age:       gofakeit.Number(0, 95),
		Gender:    gofakeit.RandomString(patient.Genders),
		Height:    round1(gofakeit.Float64Range(140, 200)),
		Weight:    round1(gofakeit.Float64Range(40, 120)),
		Allergies: gofakeit.RandomString(seedAllergies),
		Address:   gofakeit.Street() + ", " + gofakeit.City(),
	}
	// Roughly one patient in five is uninsured.
	if gofakeit.Number(1, 5) > 1 {
		insurer := gofakeit.RandomString(seedInsurers)
		p.InsuranceProvider = &insurer
	}
	return p
}

func fakeIntake(now time.Time) visit.Intake {
	date := gofakeit.DateRange(now.AddDate(-2, 0, 0), now)
	return visit.Intake{
		AdmissionType:        gofakeit.RandomString(visit.AdmissionTypes),
		VisitDate:            date.Format(gateway.DateLayout),
		RoomNumber:           fmt.Sprintf("%d%02d", gofakeit.Number(1, 6), gofakeit.Number(1, 40)),
		Symptoms:             gofakeit.RandomString(seedSymptoms),
		Tests:                gofakeit.RandomString(seedTests),
		DiagnosisNotes:       "Follow up in " + fmt.Sprint(gofakeit.Number(1, 8)) + " weeks",
		Prescription:         gofakeit.RandomString(seedPrescriptions),
		PaymentAmount:        math.Round(gofakeit.Price(50, 5000)*100) / 100,
		PaymentMethod:        gofakeit.RandomString(visit.PaymentMethods),
		PaymentInvoiceNumber: fmt.Sprintf("INV-%06d", gofakeit.Number(1, 999999)),
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
