package model

import "time"

// Snapshot is the last confirmed view of one shift, serialized as JSON.
// It seeds the desk after a restart until a fresh hydration succeeds.
type Snapshot struct {
	ShiftID int       `gorm:"primaryKey;column:shift_id" json:"shiftId"`
	TakenAt time.Time `gorm:"column:taken_at;not null" json:"takenAt"`
	Payload []byte    `gorm:"column:payload;not null" json:"-"`
}

func (Snapshot) TableName() string {
	return "desk_snapshots"
}
