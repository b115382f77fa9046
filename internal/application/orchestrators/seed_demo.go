package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"swimhealth/internal/domain/account"
	"swimhealth/internal/domain/inbody"
	"swimhealth/internal/domain/medical"
	"swimhealth/internal/domain/signup"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "swim123"

// SeedDemoDeps holds stores needed for demo seeding.
// SignUp.EmailSender is ignored; seeded accounts never get mail.
type SeedDemoDeps struct {
	SignUp       SignUpDeps
	InBodyStore  InBodyStoreForRecord
	MedicalStore MedicalStoreForRecord
}

type demoReading struct {
	daysAgo             int
	weight, fat         float64
	systolic, diastolic int
	heartRate           int
	status              medical.Status
}

type demoSwimmer struct {
	form     signup.SwimmerForm
	readings []demoReading
}

func demoCoach() signup.CoachForm {
	return signup.CoachForm{Name: "Coach Demo", Email: "coach@swimhealth.test", Password: DemoPassword}
}

// demoSwimmers covers a healthy swimmer, one needing attention and one without records.
func demoSwimmers() []demoSwimmer {
	swimmer := func(name, email, id, dob, gender, blood, allergies string) signup.SwimmerForm {
		return signup.SwimmerForm{
			FullName: name, Email: email, Password: DemoPassword, NationalID: id,
			DateOfBirth: dob, Gender: gender, BloodType: blood, Allergies: allergies,
		}
	}
	return []demoSwimmer{
		{
			form: swimmer("Layla Hassan", "layla@swimhealth.test", "2901234567", "2009-05-14", "Female", "A+", ""),
			readings: []demoReading{
				{daysAgo: 60, weight: 52.4, fat: 19.5, systolic: 112, diastolic: 72, heartRate: 64, status: medical.StatusNormal},
				{daysAgo: 5, weight: 53.1, fat: 18.9, systolic: 115, diastolic: 74, heartRate: 58, status: medical.StatusNormal},
			},
		},
		{
			form: swimmer("Omar Khaled", "omar@swimhealth.test", "3001234567", "2008-11-02", "Male", "O-", "Penicillin"),
			readings: []demoReading{
				{daysAgo: 30, weight: 68.0, fat: 14.2, systolic: 128, diastolic: 84, heartRate: 72, status: medical.StatusNormal},
				{daysAgo: 2, weight: 69.5, fat: 14.8, systolic: 146, diastolic: 92, heartRate: 104, status: medical.StatusAttention},
			},
		},
		{form: swimmer("Sara Nabil", "sara@swimhealth.test", "3101234567", "2011-01-20", "Female", "B+", "")},
	}
}

// ExecuteSeedDemo creates a demo coach and swimmers with examinations.
// It is idempotent: accounts that already exist are skipped with their records.
// PRE: Database is migrated
// POST: demo accounts exist; new swimmers carry their demo readings
func ExecuteSeedDemo(ctx context.Context, deps SeedDemoDeps) error {
	signUp := deps.SignUp
	signUp.EmailSender = nil
	now := signUp.Now()
	created := 0

	_, err := ExecuteSignUp(ctx, SignUpInput{Role: account.RoleCoach, Coach: demoCoach()}, signUp)
	switch {
	case err == nil:
		created++
	case !errors.Is(err, ErrEmailAlreadyExists):
		return fmt.Errorf("seed demo coach: %w", err)
	}

	for _, def := range demoSwimmers() {
		res, err := ExecuteSignUp(ctx, SignUpInput{Role: account.RoleSwimmer, Swimmer: def.form}, signUp)
		if errors.Is(err, ErrEmailAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed demo swimmer %s: %w", def.form.Email, err)
		}
		created++

		for _, r := range def.readings {
			date := now.AddDate(0, 0, -r.daysAgo).Truncate(24 * time.Hour)
			weight, fat := r.weight, r.fat
			if err := deps.InBodyStore.Save(ctx, inbody.Examination{
				ID: signUp.GenerateID(), SwimmerID: res.AccountID, ExaminationDate: date,
				Weight: weight, BodyFatPercentage: &fat, CreatedAt: now, UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("seed demo inbody for %s: %w", def.form.Email, err)
			}
			sys, dia, hr := r.systolic, r.diastolic, r.heartRate
			if err := deps.MedicalStore.Save(ctx, medical.Result{
				ID: signUp.GenerateID(), SwimmerID: res.AccountID, ExaminationDate: date,
				BloodPressureSystolic: &sys, BloodPressureDiastolic: &dia, HeartRate: &hr,
				Status: r.status, CreatedAt: now, UpdatedAt: now,
			}); err != nil {
				return fmt.Errorf("seed demo medical for %s: %w", def.form.Email, err)
			}
		}
	}

	if created > 0 {
		slog.Info("seed_event", "event", "demo_accounts_seeded", "created", created)
	}
	return nil
}
