package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/notification"
)

type Notification struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EntityID  string    `json:"entity_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		CompanyID: n.CompanyID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		EntityID:  n.EntityID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func FromDataModel(m *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		EntityID:  m.EntityID,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}
