// Package directory gives the reconciliation engine typed access to the
// entity gateway. It converts raw documents to models, normalizes legacy
// sentinel values on read, and owns the wire-level patch shapes so services
// never build raw documents themselves.
package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"shutterops/internal/gateway"
	"shutterops/internal/identity/models"
	id "shutterops/pkg/domain"
	"shutterops/pkg/email"
)

type Directory struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) *Directory {
	return &Directory{gw: gw}
}

func decode[T any](doc gateway.Doc) (T, error) {
	var v T
	raw, err := json.Marshal(doc)
	if err != nil {
		return v, fmt.Errorf("re-marshal doc: %w", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode doc: %w", err)
	}
	return v, nil
}

func encode(v any) (gateway.Doc, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var doc gateway.Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("doc-ify record: %w", err)
	}
	return doc, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (d *Directory) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := d.gw.List(ctx, gateway.Users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		u, err := decode[models.User](doc)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (d *Directory) GetUser(ctx context.Context, userID id.UserID) (models.User, error) {
	doc, err := d.gw.Get(ctx, gateway.Users, userID.String())
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](doc)
}

// FindUserByEmail scans for a user whose login email matches
// case-insensitively. The source does not guarantee stored casing, so an
// exact-equality pushdown would miss records; collections are bounded, a scan
// per admin action is acceptable.
func (d *Directory) FindUserByEmail(ctx context.Context, addr string) (*models.User, error) {
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if email.Equal(users[i].Email, addr) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (d *Directory) CreateUser(ctx context.Context, u models.User) error {
	doc, err := encode(u)
	if err != nil {
		return err
	}
	return d.gw.Create(ctx, gateway.Users, doc)
}

func (d *Directory) UpdateUser(ctx context.Context, userID id.UserID, patch gateway.Doc) error {
	return d.gw.Update(ctx, gateway.Users, userID.String(), patch)
}

// ---------------------------------------------------------------------------
// Staff
// ---------------------------------------------------------------------------

func decodeStaff(doc gateway.Doc) (models.Staff, error) {
	s, err := decode[models.Staff](doc)
	if err != nil {
		return models.Staff{}, err
	}
	// The only place legacy unset sentinels are interpreted.
	s.UserID = models.NormalizeLink(s.UserID)
	return s, nil
}

func (d *Directory) ListStaff(ctx context.Context) ([]models.Staff, error) {
	docs, err := d.gw.List(ctx, gateway.Staff)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	staff := make([]models.Staff, 0, len(docs))
	for _, doc := range docs {
		s, err := decodeStaff(doc)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, nil
}

func (d *Directory) GetStaff(ctx context.Context, staffID id.StaffID) (models.Staff, error) {
	doc, err := d.gw.Get(ctx, gateway.Staff, staffID.String())
	if err != nil {
		return models.Staff{}, err
	}
	return decodeStaff(doc)
}

// SetStaffUserID writes the user link. Callers enforce the non-overwrite
// invariant; this method never emits a sentinel value.
func (d *Directory) SetStaffUserID(ctx context.Context, staffID id.StaffID, userID id.UserID) error {
	return d.gw.Update(ctx, gateway.Staff, staffID.String(), gateway.Doc{
		"user_id": userID.String(),
	})
}

func (d *Directory) UpdateStaff(ctx context.Context, staffID id.StaffID, patch gateway.Doc) error {
	return d.gw.Update(ctx, gateway.Staff, staffID.String(), patch)
}

func (d *Directory) CreateStaff(ctx context.Context, s models.Staff) error {
	doc, err := encode(s)
	if err != nil {
		return err
	}
	return d.gw.Create(ctx, gateway.Staff, doc)
}

func (d *Directory) BulkCreateStaff(ctx context.Context, drafts []models.Staff) error {
	docs := make([]gateway.Doc, 0, len(drafts))
	for _, s := range drafts {
		doc, err := encode(s)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return d.gw.BulkCreate(ctx, gateway.Staff, docs)
}

// ---------------------------------------------------------------------------
// Candidates
// ---------------------------------------------------------------------------

func (d *Directory) GetCandidate(ctx context.Context, candidateID id.CandidateID) (models.Candidate, error) {
	doc, err := d.gw.Get(ctx, gateway.Candidates, candidateID.String())
	if err != nil {
		return models.Candidate{}, err
	}
	return decode[models.Candidate](doc)
}

// ---------------------------------------------------------------------------
// Leads / Bookings
// ---------------------------------------------------------------------------

func (d *Directory) ListLeads(ctx context.Context) ([]models.Lead, error) {
	docs, err := d.gw.List(ctx, gateway.Leads)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	leads := make([]models.Lead, 0, len(docs))
	for _, doc := range docs {
		l, err := decode[models.Lead](doc)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, nil
}

func (d *Directory) ListBookings(ctx context.Context) ([]models.Booking, error) {
	docs, err := d.gw.List(ctx, gateway.Bookings)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	bookings := make([]models.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := decode[models.Booking](doc)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// SetLeadCreatedBy corrects the denormalized attribution email on a lead.
func (d *Directory) SetLeadCreatedBy(ctx context.Context, leadID, createdBy string) error {
	return d.gw.Update(ctx, gateway.Leads, leadID, gateway.Doc{"created_by": createdBy})
}

// SetBookingCreatedBy corrects the denormalized attribution email on a booking.
func (d *Directory) SetBookingCreatedBy(ctx context.Context, bookingID, createdBy string) error {
	return d.gw.Update(ctx, gateway.Bookings, bookingID, gateway.Doc{"created_by": createdBy})
}
