package registration

import (
	"context"

	"dormdesk/internal/domain/paymentplan"
)

// Step names.
const (
	StepPerson       = "person"
	StepGuest        = "guest"
	StepGuardian     = "guardian"
	StepRegistration = "registration"
	StepProducts     = "products"
	StepPaymentPlans = "payment_plans"
)

// Gateway creates the records a submission is made of.
type Gateway interface {
	CreatePerson(ctx context.Context, p Person) (*Person, error)
	CreateGuest(ctx context.Context, g Guest) (*Guest, error)
	CreateGuardian(ctx context.Context, g Guardian) (*Guardian, error)
	CreateRegistration(ctx context.Context, r SeasonRegistration) (*SeasonRegistration, error)
	AttachProduct(ctx context.Context, registrationID int64, line ProductLine) (int64, error)
	CreatePaymentPlan(ctx context.Context, line paymentplan.Line) (*paymentplan.Line, error)
}

// Outcome carries ids between steps and back to the caller.
type Outcome struct {
	PersonID       int64 `json:"person_id,omitempty"`
	GuestID        int64 `json:"guest_id,omitempty"`
	GuardianID     int64 `json:"guardian_id,omitempty"`
	RegistrationID int64 `json:"registration_id,omitempty"`
}

// addStudentSteps appends person → guest → guardian. The guardian step is
// only added when a guardian was entered.
func addStudentSteps(p *Pipeline[Outcome], gw Gateway, in StudentInput) {
	p.Add(Step[Outcome]{
		Name: StepPerson,
		Run: func(ctx context.Context, out *Outcome) ([]int64, error) {
			created, err := gw.CreatePerson(ctx, in.Person)
			if err != nil {
				return nil, err
			}
			out.PersonID = created.ID
			return []int64{created.ID}, nil
		},
	})
	p.Add(Step[Outcome]{
		Name:      StepGuest,
		DependsOn: []string{StepPerson},
		Run: func(ctx context.Context, out *Outcome) ([]int64, error) {
			created, err := gw.CreateGuest(ctx, Guest{
				PersonID:   out.PersonID,
				School:     in.School,
				Department: in.Department,
			})
			if err != nil {
				return nil, err
			}
			out.GuestID = created.ID
			return []int64{created.ID}, nil
		},
	})
	if in.Guardian == nil {
		return
	}
	guardian := *in.Guardian
	p.Add(Step[Outcome]{
		Name:      StepGuardian,
		DependsOn: []string{StepGuest},
		Run: func(ctx context.Context, out *Outcome) ([]int64, error) {
			guardian.GuestID = out.GuestID
			created, err := gw.CreateGuardian(ctx, guardian)
			if err != nil {
				return nil, err
			}
			out.GuardianID = created.ID
			return []int64{created.ID}, nil
		},
	})
}

// StudentPipeline creates a new student: person → guest → guardian.
func StudentPipeline(gw Gateway, in StudentInput) *Pipeline[Outcome] {
	p := NewPipeline[Outcome]("create_student")
	addStudentSteps(p, gw, in)
	return p
}

// RegistrationPipeline submits d: the student steps when d creates a new
// student, then registration → products and registration → payment plans.
// Guardian failure does not block the registration.
func RegistrationPipeline(gw Gateway, d Draft) *Pipeline[Outcome] {
	p := NewPipeline[Outcome]("submit_registration")

	var regDeps []string
	if d.Student != nil {
		addStudentSteps(p, gw, *d.Student)
		regDeps = []string{StepGuest}
	}

	var notes *string
	if d.Notes != "" {
		n := d.Notes
		notes = &n
	}

	p.Add(Step[Outcome]{
		Name:      StepRegistration,
		DependsOn: regDeps,
		Run: func(ctx context.Context, out *Outcome) ([]int64, error) {
			guestID := d.GuestID
			if out.GuestID != 0 {
				guestID = out.GuestID
			}
			created, err := gw.CreateRegistration(ctx, SeasonRegistration{
				GuestID:       guestID,
				ApartID:       d.ApartID,
				RoomID:        d.RoomID,
				BedID:         d.BedID,
				SeasonCode:    d.SeasonCode,
				CheckIn:       d.CheckIn,
				CheckOut:      d.CheckOut,
				DepositAmount: d.DepositAmount,
				TotalAmount:   d.TotalAmount(),
				Notes:         notes,
			})
			if err != nil {
				return nil, err
			}
			out.RegistrationID = created.ID
			return []int64{created.ID}, nil
		},
	})

	p.Add(Step[Outcome]{
		Name:      StepProducts,
		DependsOn: []string{StepRegistration},
		Run: func(ctx context.Context, out *Outcome) ([]int64, error) {
			var ids []int64
			for _, line := range d.Products {
				id, err := gw.AttachProduct(ctx, out.RegistrationID, line)
				if err != nil {
					return ids, err
				}
				ids = append(ids, id)
			}
			return ids, nil
		},
	})

	p.Add(Step[Outcome]{
		Name:      StepPaymentPlans,
		DependsOn: []string{StepRegistration},
		Run: func(ctx context.Context, out *Outcome) ([]int64, error) {
			var ids []int64
			for _, line := range d.PaymentPlans {
				line.ID = 0
				line.SeasonRegistrationID = out.RegistrationID
				created, err := gw.CreatePaymentPlan(ctx, line)
				if err != nil {
					return ids, err
				}
				ids = append(ids, created.ID)
			}
			return ids, nil
		},
	})

	return p
}
