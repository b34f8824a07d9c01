package models

// License is a redeemable key for a game on a given platform.
type License struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Key      string          `gorm:"not null" json:"key" validate:"present"`
	GameID   uint            `gorm:"not null;index" json:"game_id"`
	Status   LicenseStatus   `gorm:"not null" json:"status" validate:"required,enum"`
	Platform LicensePlatform `gorm:"not null" json:"platform" validate:"required,enum"`
}

func (l *License) TableName() string {
	return "licenses"
}
