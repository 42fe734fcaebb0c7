package store

import (
	"time"

	"whatsapp-console/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (s *Store) GetMessage(id string) (*models.Message, error) {
	var m models.Message
	if err := s.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// GetMessageByWhatsAppID looks a message up by its provider-assigned id.
// The column carries a unique index, so correlation is a point lookup.
func (s *Store) GetMessageByWhatsAppID(waMessageID string) (*models.Message, error) {
	var m models.Message
	if err := s.db.Where("whatsapp_message_id = ?", waMessageID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *Store) ListMessages() ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.Order("timestamp DESC").Find(&messages).Error
	return messages, err
}

// ListMessagesByContact returns one contact's messages oldest first, the
// order a conversation view renders them in.
func (s *Store) ListMessagesByContact(contactID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.Where("contact_id = ?", contactID).Order("timestamp ASC").Find(&messages).Error
	return messages, err
}

// CreateMessage inserts a message row, assigning its id and timestamp.
func (s *Store) CreateMessage(m *models.Message) error {
	m.ID = uuid.NewString()
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return s.db.Create(m).Error
}

// CreateInboundMessage inserts an inbound message unless one with the same
// provider message id already exists. Webhook deliveries are retried by the
// provider, so a replayed event must not duplicate the row; the unique index
// over whatsapp_message_id backs this. Returns the stored row and whether
// this call created it.
func (s *Store) CreateInboundMessage(m *models.Message) (*models.Message, bool, error) {
	if m.WhatsAppMessageID == nil {
		if err := s.CreateMessage(m); err != nil {
			return nil, false, err
		}
		return m, true, nil
	}

	m.ID = uuid.NewString()
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "whatsapp_message_id"}},
		DoNothing: true,
	}).Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := s.GetMessageByWhatsAppID(*m.WhatsAppMessageID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return m, true, nil
}

// SetMessageStatus overwrites a message's status unconditionally. This backs
// the manual PATCH endpoint; webhook callbacks go through ApplyStatusUpdate
// instead.
func (s *Store) SetMessageStatus(id, status string) (*models.Message, error) {
	res := s.db.Model(&models.Message{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetMessage(id)
}

// ApplyStatusUpdate reconciles a provider status callback with the message it
// refers to. A callback for an unknown provider id is a no-op, as is one that
// would move the status backwards (callbacks arrive out of order). Returns
// the message (nil when unmatched) and whether the update was applied.
func (s *Store) ApplyStatusUpdate(waMessageID, status string) (*models.Message, bool, error) {
	m, err := s.GetMessageByWhatsAppID(waMessageID)
	if err != nil {
		if err == ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	if !models.StatusAdvances(m.Status, status) {
		return m, false, nil
	}

	if err := s.db.Model(m).Update("status", status).Error; err != nil {
		return nil, false, err
	}
	m.Status = status
	return m, true, nil
}
