package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-app-server/internal/models"
)

// memStore is an in-memory Store double. It enforces the same uniqueness
// rules as the MySQL indexes and the same transaction semantics as
// gorm.DB.Transaction, so the conflict and rollback paths behave like
// production.
type memStore struct {
	mu           sync.Mutex
	txMu         sync.Mutex // serializes transactions so rollback is isolated
	appointments map[string]*models.Appointment   // by appointment id
	triples      map[string]string                // triple key -> appointment id
	records      map[string]*models.MedicalRecord // by appointment id

	// setStatusErr, when set, makes SetAppointmentStatus fail, to exercise
	// rollback of multi-step transactions.
	setStatusErr error
}

func newMemStore() *memStore {
	return &memStore{
		appointments: make(map[string]*models.Appointment),
		triples:      make(map[string]string),
		records:      make(map[string]*models.MedicalRecord),
	}
}

func tripleKey(doctorID string, date time.Time, slot string) string {
	return doctorID + "|" + date.Format(DateLayout) + "|" + slot
}

func (m *memStore) FindAppointments(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	day := date.Format(DateLayout)
	for _, appt := range m.appointments {
		if appt.DoctorID == doctorID && appt.AppointmentDate.Format(DateLayout) == day {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (m *memStore) FindAppointment(ctx context.Context, doctorID string, date time.Time, slot string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.triples[tripleKey(doctorID, date, slot)]
	if !ok {
		return nil, nil
	}
	appt := *m.appointments[id]
	return &appt, nil
}

func (m *memStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appt
	return &copied, nil
}

func (m *memStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := tripleKey(appt.DoctorID, appt.AppointmentDate, appt.TimeSlot)
	if _, taken := m.triples[key]; taken {
		return ErrSlotTaken
	}
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	copied := *appt
	m.appointments[appt.ID] = &copied
	m.triples[key] = appt.ID
	return nil
}

func (m *memStore) SetAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	if appt, ok := m.appointments[id]; ok {
		appt.Status = status
	}
	return nil
}

func (m *memStore) DeleteAppointment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	appt, ok := m.appointments[id]
	if !ok {
		return nil
	}
	delete(m.triples, tripleKey(appt.DoctorID, appt.AppointmentDate, appt.TimeSlot))
	delete(m.appointments, id)
	return nil
}

func (m *memStore) FindMedicalRecord(ctx context.Context, appointmentID string) (*models.MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[appointmentID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (m *memStore) CreateMedicalRecord(ctx context.Context, rec *models.MedicalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.AppointmentID]; exists {
		return ErrRecordExists
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	copied := *rec
	m.records[rec.AppointmentID] = &copied
	return nil
}

func (m *memStore) DeleteMedicalRecordByAppointment(ctx context.Context, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, appointmentID)
	return nil
}

// InTransaction snapshots the store and restores it when fn fails, so every
// write inside fn commits or none does. Transactions are serialized, so a
// rollback never clobbers a concurrently committed one.
func (m *memStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	appointments := make(map[string]*models.Appointment, len(m.appointments))
	for id, appt := range m.appointments {
		copied := *appt
		appointments[id] = &copied
	}
	triples := make(map[string]string, len(m.triples))
	for key, id := range m.triples {
		triples[key] = id
	}
	records := make(map[string]*models.MedicalRecord, len(m.records))
	for id, rec := range m.records {
		copied := *rec
		records[id] = &copied
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.appointments = appointments
		m.triples = triples
		m.records = records
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) appointmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments)
}
