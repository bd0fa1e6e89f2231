package domain

import "time"

type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	RoomsCount  int       `json:"roomsCount"`
	ManagerID   *string   `json:"managerId,omitempty"`
	Manager     *User     `json:"manager,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ManagedBy manager 为空时恒 false
func (h *Hotel) ManagedBy(userID string) bool {
	return h.ManagerID != nil && *h.ManagerID == userID
}
