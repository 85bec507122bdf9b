package models

// HashPan is one tokenized card number of the reference table. IDs are dense
// in [0, record count).
type HashPan struct {
	ID      int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	HashPan string `gorm:"column:hash_pan;size:128;not null" json:"hash_pan"`
}

func (HashPan) TableName() string { return "hash_pans" }

// HashPanFilter represents filter criteria for hash_pan queries
type HashPanFilter struct {
	IDs []int64
}
