package models

import (
	"time"
)

// Message directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Delivery statuses. Received applies to inbound messages, the rest track
// outbound delivery as reported by the provider.
const (
	StatusReceived  = "received"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Contact represents a messaging counterparty, keyed by phone number.
type Contact struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PhoneNumber string    `gorm:"uniqueIndex;not null;type:varchar(50)" json:"phoneNumber"`
	Name        *string   `gorm:"type:varchar(255)" json:"name"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Message is one inbound or outbound communication unit tied to a Contact.
// WhatsAppMessageID is the provider-assigned id used to correlate later
// status callbacks; it is unique among messages that have one.
type Message struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ContactID         string    `gorm:"index;not null;type:varchar(36)" json:"contactId"`
	Direction         string    `gorm:"not null;type:varchar(10)" json:"direction"`
	Content           string    `gorm:"type:text" json:"content"`
	MessageType       string    `gorm:"not null;type:varchar(50)" json:"messageType"`
	Status            string    `gorm:"type:varchar(20)" json:"status"`
	WhatsAppMessageID *string   `gorm:"column:whatsapp_message_id;uniqueIndex;type:varchar(255)" json:"whatsappMessageId"`
	Timestamp         time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (Message) TableName() string {
	return "messages"
}

// Flow is a named automation definition. FlowData holds the node/edge graph
// as opaque JSON; no execution engine interprets it.
type Flow struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"not null;type:varchar(255)" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    int       `gorm:"default:0;not null" json:"isActive"`
	FlowData    JSONText  `gorm:"type:text;not null" json:"flowData"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Flow) TableName() string {
	return "flows"
}

// Template is a reusable message body with {{variable}} placeholders. The
// placeholders are not interpreted here; Status tracks provider approval.
type Template struct {
	ID                 string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name               string    `gorm:"not null;type:varchar(255)" json:"name"`
	Content            string    `gorm:"not null;type:text" json:"content"`
	Category           string    `gorm:"not null;type:varchar(100)" json:"category"`
	Language           string    `gorm:"not null;default:en;type:varchar(10)" json:"language"`
	Status             string    `gorm:"not null;type:varchar(20)" json:"status"`
	WhatsAppTemplateID *string   `gorm:"type:varchar(255)" json:"whatsappTemplateId"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Template) TableName() string {
	return "templates"
}

// statusRank orders delivery statuses so that out-of-order provider callbacks
// cannot regress a message (e.g. a late "sent" after "delivered").
var statusRank = map[string]int{
	StatusReceived:  1,
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// StatusAdvances reports whether a callback carrying next may be applied to a
// message currently in cur. A status advances when its rank is strictly
// higher; "failed" is accepted from any non-terminal state. Unknown next
// values never apply.
func StatusAdvances(cur, next string) bool {
	if next == StatusFailed {
		return cur != StatusRead && cur != StatusFailed
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return false
	}
	if cur == StatusFailed {
		return false
	}
	return nextRank > statusRank[cur]
}
