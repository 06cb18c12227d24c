package model

import "time"

// Certificate is the terminal artifact of a completed course.
// The composite unique index on (user_id, course_id) is what makes
// issuance exactly-once: concurrent inserts for the same pair collapse
// into one row and the loser fetches the winner's record.
type Certificate struct {
	BaseModel
	UserID            uint      `gorm:"not null;uniqueIndex:uq_certificate_user_course" json:"userId"`
	CourseID          uint      `gorm:"not null;uniqueIndex:uq_certificate_user_course" json:"courseId"`
	CertificateNumber string    `gorm:"size:64;uniqueIndex;not null" json:"certificateNumber"`
	VerificationCode  string    `gorm:"size:64;uniqueIndex;not null" json:"verificationCode"`
	IssuedAt          time.Time `gorm:"not null" json:"issuedAt"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}
