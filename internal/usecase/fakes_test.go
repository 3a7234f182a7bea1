package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unavailable")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// --- appointments ---

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	items        map[primitive.ObjectID]entity.Appointment
	createErr    error
	lastFilter   entity.AppointmentFilter
	lastLimit    int
	lastOffset   int
	statusWrites int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[primitive.ObjectID]entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if a.SlotKey != "" {
		for _, existing := range r.items {
			if existing.SlotKey == a.SlotKey {
				return repository.ErrDuplicateKey
			}
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.items[a.ID] = *a
	return nil
}

func (r *fakeAppointmentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) FindAll(_ context.Context, filter entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter, r.lastLimit, r.lastOffset = filter, limit, offset

	var matched []entity.Appointment
	for _, a := range r.items {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.DoctorEmail != "" && a.DoctorEmail != filter.DoctorEmail {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.From != nil && a.AppointmentDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.AppointmentDate.After(*filter.To) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].AppointmentDate.After(matched[j].AppointmentDate) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status entity.AppointmentStatus, releaseSlot bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusWrites++
	a := r.items[id]
	a.Status = status
	if releaseSlot {
		a.SlotKey = ""
	}
	r.items[id] = a
	return nil
}

func (r *fakeAppointmentRepo) FindClaimed(context.Context, time.Time, int, int) ([]entity.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) EnsureIndexes(context.Context) error { return nil }

// --- doctors ---

type fakeDoctorRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]entity.Doctor
	// beforeReplace runs inside ReplaceAvailability before the guard is checked
	beforeReplace func(id primitive.ObjectID)
	replaceCalls  int
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{items: make(map[primitive.ObjectID]entity.Doctor)}
}

func (r *fakeDoctorRepo) put(d entity.Doctor) entity.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	r.items[d.ID] = d
	return d
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == d.Email {
			return repository.ErrDuplicateKey
		}
	}
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	r.items[d.ID] = *d
	return nil
}

func (r *fakeDoctorRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string, excludeID *primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.items {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if d.Email == email || d.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func withoutPassword(d entity.Doctor) entity.Doctor {
	d.Password = ""
	d.AvailableDates = append(entity.Availability(nil), d.AvailableDates...)
	for i := range d.AvailableDates {
		d.AvailableDates[i].TimeSlots = append([]string{}, d.AvailableDates[i].TimeSlots...)
	}
	return d
}

func (r *fakeDoctorRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	d = withoutPassword(d)
	return &d, nil
}

func (r *fakeDoctorRepo) FindAll(_ context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Doctor
	for _, d := range r.items {
		if filter.Email != "" && d.Email != filter.Email {
			continue
		}
		if filter.Email == "" && filter.ID != nil && d.ID != *filter.ID {
			continue
		}
		out = append(out, withoutPassword(d))
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.items[d.ID]
	password := stored.Password
	d.UpdatedAt = time.Now()
	updated := *d
	updated.Password = password
	r.items[d.ID] = updated
	return nil
}

func (r *fakeDoctorRepo) ReplaceAvailability(_ context.Context, id primitive.ObjectID, av entity.Availability, expected time.Time) (time.Time, bool, error) {
	if r.beforeReplace != nil {
		r.beforeReplace(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	d, ok := r.items[id]
	if !ok || !d.UpdatedAt.Equal(expected) {
		return time.Time{}, false, nil
	}
	d.AvailableDates = av
	d.UpdatedAt = d.UpdatedAt.Add(time.Millisecond)
	r.items[id] = d
	return d.UpdatedAt, true, nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeDoctorRepo) EnsureIndexes(context.Context) error { return nil }

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[primitive.ObjectID]entity.User)}
}

func (r *fakeUserRepo) byEmail(email string) (entity.User, bool) {
	for _, u := range r.items {
		if u.Email == email {
			return u, true
		}
	}
	return entity.User{}, false
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail(email)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) UpsertPendingOTP(_ context.Context, email, otp string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail(email)
	if !ok {
		u = entity.User{ID: primitive.NewObjectID(), Email: email, Role: entity.RoleUser, CreatedAt: time.Now()}
	}
	u.OTP = otp
	u.OTPExpiry = &expiry
	r.items[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByEmailAndOTP(_ context.Context, email, otp string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail(email)
	if !ok || u.OTP != otp || u.OTPExpiry == nil || !u.OTPExpiry.After(now) {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) CompleteRegistration(_ context.Context, id primitive.ObjectID, name, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.items[id]
	u.Name = name
	u.Password = hash
	u.IsVerified = true
	u.OTP = ""
	u.OTPExpiry = nil
	r.items[id] = u
	return nil
}

func (r *fakeUserRepo) DeleteExpiredPending(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, u := range r.items {
		if !u.IsVerified && u.OTPExpiry != nil && u.OTPExpiry.Before(now) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

// --- plans and CRM ---

type fakePlanRepo struct {
	items map[primitive.ObjectID]entity.Plan
	err   error
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{items: make(map[primitive.ObjectID]entity.Plan)}
}

func (r *fakePlanRepo) Create(_ context.Context, p *entity.Plan) error {
	if r.err != nil {
		return r.err
	}
	p.ID = primitive.NewObjectID()
	r.items[p.ID] = *p
	return nil
}

func (r *fakePlanRepo) FindAll(context.Context) ([]entity.Plan, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Plan
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlanRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Plan, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePlanRepo) Update(_ context.Context, p *entity.Plan) error {
	r.items[p.ID] = *p
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.items, id)
	return nil
}

type fakeCRMRepo struct {
	items map[primitive.ObjectID]entity.CRMEntry
}

func newFakeCRMRepo() *fakeCRMRepo {
	return &fakeCRMRepo{items: make(map[primitive.ObjectID]entity.CRMEntry)}
}

func (r *fakeCRMRepo) Create(_ context.Context, e *entity.CRMEntry) error {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()
	r.items[e.ID] = *e
	return nil
}

func (r *fakeCRMRepo) FindAll(context.Context) ([]entity.CRMEntry, error) {
	var out []entity.CRMEntry
	for _, e := range r.items {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeCRMRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.CRMEntry, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *fakeCRMRepo) Update(_ context.Context, e *entity.CRMEntry) error {
	r.items[e.ID] = *e
	return nil
}

func (r *fakeCRMRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.items, id)
	return nil
}

// --- contacts ---

type fakeContactRepo struct {
	items []entity.Contact
}

func (r *fakeContactRepo) Create(_ context.Context, c *entity.Contact) error {
	c.ID = primitive.NewObjectID()
	r.items = append(r.items, *c)
	return nil
}

func (r *fakeContactRepo) FindAll(context.Context) ([]entity.Contact, error) {
	return r.items, nil
}

type fakeContactMessageRepo struct {
	items map[primitive.ObjectID]entity.ContactMessage
}

func newFakeContactMessageRepo() *fakeContactMessageRepo {
	return &fakeContactMessageRepo{items: make(map[primitive.ObjectID]entity.ContactMessage)}
}

func (r *fakeContactMessageRepo) Create(_ context.Context, m *entity.ContactMessage) error {
	m.ID = primitive.NewObjectID()
	r.items[m.ID] = *m
	return nil
}

func (r *fakeContactMessageRepo) FindAll(context.Context) ([]entity.ContactMessage, error) {
	var out []entity.ContactMessage
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeContactMessageRepo) FindByID(_ context.Context, id primitive.ObjectID) (*entity.ContactMessage, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeContactMessageRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	m := r.items[id]
	m.Status = status
	r.items[id] = m
	return nil
}

// --- collaborators ---

type auditRecord struct {
	actorID *string
	action  string
	entity  string
	id      string
}

type fakeAuditService struct {
	mu      sync.Mutex
	records []auditRecord
}

func (s *fakeAuditService) add(actorID *string, action, entityName, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, auditRecord{actorID: actorID, action: action, entity: entityName, id: entityID})
	return nil
}

func (s *fakeAuditService) LogCreate(_ context.Context, actorID *string, action, entityName, entityID string, _ interface{}) error {
	return s.add(actorID, action, entityName, entityID)
}

func (s *fakeAuditService) LogUpdate(_ context.Context, actorID *string, action, entityName, entityID string, _, _ interface{}) error {
	return s.add(actorID, action, entityName, entityID)
}

func (s *fakeAuditService) LogDelete(_ context.Context, actorID *string, action, entityName, entityID string, _ interface{}) error {
	return s.add(actorID, action, entityName, entityID)
}

func (s *fakeAuditService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.action
	}
	return out
}

type fakeMailer struct {
	sent []service.MailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg service.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
