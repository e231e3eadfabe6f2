package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"clinic-app-server/internal/models"
)

// GormStore is the MySQL-backed Store implementation.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store over the given gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindAppointments(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date.Format(DateLayout)).
		Order("time_slot asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *GormStore) FindAppointment(ctx context.Context, doctorID string, date time.Time, slot string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ? AND time_slot = ?", doctorID, date.Format(DateLayout), slot).
		First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	err := s.db.WithContext(ctx).Create(appt).Error
	if isDuplicateKey(err) {
		return ErrSlotTaken
	}
	return err
}

func (s *GormStore) SetAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *GormStore) DeleteAppointment(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id).Error
}

func (s *GormStore) FindMedicalRecord(ctx context.Context, appointmentID string) (*models.MedicalRecord, error) {
	var rec models.MedicalRecord
	err := s.db.WithContext(ctx).First(&rec, "appointment_id = ?", appointmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore) CreateMedicalRecord(ctx context.Context, rec *models.MedicalRecord) error {
	err := s.db.WithContext(ctx).Create(rec).Error
	if isDuplicateKey(err) {
		return ErrRecordExists
	}
	return err
}

func (s *GormStore) DeleteMedicalRecordByAppointment(ctx context.Context, appointmentID string) error {
	return s.db.WithContext(ctx).Delete(&models.MedicalRecord{}, "appointment_id = ?", appointmentID).Error
}

func (s *GormStore) InTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// isDuplicateKey recognizes a unique-constraint violation from gorm's
// translated error or the raw MySQL 1062 code.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
