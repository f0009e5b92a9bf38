package table

import "time"

type Status string

const (
	StatusAvailable     Status = "Available"
	StatusOccupied      Status = "Occupied"
	StatusBillRequested Status = "BillRequested"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusBillRequested:
		return true
	}
	return false
}

type Table struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
