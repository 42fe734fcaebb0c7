package store

import (
	"encoding/json"

	"whatsapp-console/internal/models"

	"github.com/google/uuid"
)

// FlowUpdate carries the fields a PATCH may change; nil fields are left
// untouched.
type FlowUpdate struct {
	Name        *string
	Description *string
	IsActive    *int
	FlowData    json.RawMessage
}

func (s *Store) GetFlow(id string) (*models.Flow, error) {
	var f models.Flow
	if err := s.db.Where("id = ?", id).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *Store) ListFlows() ([]models.Flow, error) {
	flows := []models.Flow{}
	err := s.db.Order("created_at DESC").Find(&flows).Error
	return flows, err
}

func (s *Store) ListActiveFlows() ([]models.Flow, error) {
	flows := []models.Flow{}
	err := s.db.Where("is_active = ?", 1).Order("created_at DESC").Find(&flows).Error
	return flows, err
}

func (s *Store) CreateFlow(f *models.Flow) error {
	f.ID = uuid.NewString()
	return s.db.Create(f).Error
}

func (s *Store) UpdateFlow(id string, upd FlowUpdate) (*models.Flow, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if upd.FlowData != nil {
		fields["flow_data"] = models.JSONText(upd.FlowData)
	}

	q := s.db.Model(&models.Flow{}).Where("id = ?", id)
	if len(fields) > 0 {
		res := q.Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetFlow(id)
}

func (s *Store) DeleteFlow(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Flow{}).Error
}
