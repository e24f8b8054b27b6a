package models

import "time"

// Settings is the singleton platform configuration row (id = 1). It is
// read by the commission cascade and written only by admin operations.
// Operations receive it as a plain value loaded once per call rather
// than reaching for ambient state.
type Settings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level1Bps int64     `gorm:"not null;default:0" json:"level1_bps"`
	Level2Bps int64     `gorm:"not null;default:0" json:"level2_bps"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepositAddress is a platform-owned destination users send funds to,
// keyed by asset and network rail. Admin-managed, read-only to the core.
type DepositAddress struct {
	Base
	Asset   string `gorm:"not null;index" json:"asset"`
	Network string `json:"network,omitempty"`
	Address string `gorm:"not null" json:"address"`
}
