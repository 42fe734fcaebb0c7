package store

import (
	"time"

	"whatsapp-console/internal/models"
)

// Stats are the dashboard counters.
type Stats struct {
	TotalMessages int64 `json:"totalMessages"`
	SentToday     int64 `json:"sentToday"`
	Delivered     int64 `json:"delivered"`
	ActiveFlows   int64 `json:"activeFlows"`
}

// GetStats derives the dashboard counters with COUNT queries. SentToday
// counts outbound messages stamped at or after local midnight of now.
func (s *Store) GetStats(now time.Time) (*Stats, error) {
	var st Stats

	if err := s.db.Model(&models.Message{}).Count(&st.TotalMessages).Error; err != nil {
		return nil, err
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.Message{}).
		Where("direction = ? AND timestamp >= ?", models.DirectionOutbound, midnight).
		Count(&st.SentToday).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Message{}).
		Where("status IN ?", []string{models.StatusDelivered, models.StatusRead}).
		Count(&st.Delivered).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Flow{}).Where("is_active = ?", 1).Count(&st.ActiveFlows).Error; err != nil {
		return nil, err
	}

	return &st, nil
}
