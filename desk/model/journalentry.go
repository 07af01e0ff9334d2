package model

import "time"

// JournalEntry records one confirmed mutation after it was applied to the
// view. The journal is append-only and exists for audit, not replay.
type JournalEntry struct {
	ID        string `gorm:"primaryKey;column:id" json:"id"`
	ShiftID   int    `gorm:"column:shift_id;index;not null" json:"shiftId"`
	EntityKey string `gorm:"column:entity_key;not null" json:"entityKey"`
	Kind      string `gorm:"column:kind;not null" json:"kind"`
	Payload   []byte `gorm:"column:payload" json:"payload"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (JournalEntry) TableName() string {
	return "desk_journal"
}
