package store

import (
	"whatsapp-console/internal/models"

	"github.com/google/uuid"
)

// TemplateUpdate carries the fields a PATCH may change; nil fields are left
// untouched.
type TemplateUpdate struct {
	Name               *string
	Content            *string
	Category           *string
	Language           *string
	Status             *string
	WhatsAppTemplateID *string
}

func (s *Store) GetTemplate(id string) (*models.Template, error) {
	var t models.Template
	if err := s.db.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (s *Store) ListTemplates() ([]models.Template, error) {
	templates := []models.Template{}
	err := s.db.Order("created_at DESC").Find(&templates).Error
	return templates, err
}

func (s *Store) ListTemplatesByStatus(status string) ([]models.Template, error) {
	templates := []models.Template{}
	err := s.db.Where("status = ?", status).Order("created_at DESC").Find(&templates).Error
	return templates, err
}

func (s *Store) CreateTemplate(t *models.Template) error {
	t.ID = uuid.NewString()
	if t.Language == "" {
		t.Language = "en"
	}
	return s.db.Create(t).Error
}

func (s *Store) UpdateTemplate(id string, upd TemplateUpdate) (*models.Template, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Content != nil {
		fields["content"] = *upd.Content
	}
	if upd.Category != nil {
		fields["category"] = *upd.Category
	}
	if upd.Language != nil {
		fields["language"] = *upd.Language
	}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.WhatsAppTemplateID != nil {
		fields["whatsapp_template_id"] = *upd.WhatsAppTemplateID
	}

	q := s.db.Model(&models.Template{}).Where("id = ?", id)
	if len(fields) > 0 {
		res := q.Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetTemplate(id)
}

func (s *Store) DeleteTemplate(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Template{}).Error
}
