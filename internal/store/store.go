// Package store implements the persistence layer for the messaging console,
// backed by GORM. All components access entity state through a Store value;
// nothing caches rows outside of it.
package store

import (
	"errors"

	"whatsapp-console/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- Contacts ---

func (s *Store) GetContact(id string) (*models.Contact, error) {
	var c models.Contact
	if err := s.db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) GetContactByPhone(phoneNumber string) (*models.Contact, error) {
	var c models.Contact
	if err := s.db.Where("phone_number = ?", phoneNumber).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) ListContacts() ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := s.db.Order("created_at DESC").Find(&contacts).Error
	return contacts, err
}

// UpsertContact resolves the contact for a phone number, creating it when
// missing. The insert relies on the unique index over phone_number, so two
// concurrent callers for the same number converge on one row. It returns the
// canonical row and whether this call created it.
func (s *Store) UpsertContact(phoneNumber string, name *string) (*models.Contact, bool, error) {
	c := models.Contact{
		ID:          uuid.NewString(),
		PhoneNumber: phoneNumber,
		Name:        name,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_number"}},
		DoNothing: true,
	}).Create(&c)
	if res.Error != nil {
		return nil, false, res.Error
	}

	existing, err := s.GetContactByPhone(phoneNumber)
	if err != nil {
		return nil, false, err
	}
	return existing, res.RowsAffected > 0 && existing.ID == c.ID, nil
}

// UpdateContactName sets the display name of a contact.
func (s *Store) UpdateContactName(id string, name *string) (*models.Contact, error) {
	res := s.db.Model(&models.Contact{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetContact(id)
}
