package models

// SystemRequirement describes the hardware a game needs.
type SystemRequirement struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"not null" json:"name" validate:"present"`
	OperationalSystem string `json:"operational_system"`
	Storage           string `json:"storage"`
	Processor         string `json:"processor"`
	Memory            string `json:"memory"`
	VideoBoard        string `json:"video_board"`
}

func (s *SystemRequirement) TableName() string {
	return "system_requirements"
}
