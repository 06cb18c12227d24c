package model

// swagger:model Course
type Course struct {
	BaseModel
	Title         string  `gorm:"size:255;not null" json:"title"`
	Description   string  `gorm:"type:text" json:"description"`
	VideoURL      string  `gorm:"size:512" json:"videoUrl"`
	VideoDuration float64 `gorm:"default:0" json:"videoDuration"` // seconds
	IsActive      bool    `gorm:"default:true;index" json:"isActive"`
}

func (Course) TableName() string {
	return "courses"
}
