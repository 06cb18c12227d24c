package repository

import (
	"errors"
	"training_portal_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// ErrCodeCollision distinguishes a generated-code collision from the
// expected (user, course) duplicate: the issuer retries the former with
// fresh codes and treats the latter as "already issued".
var ErrCodeCollision = errors.New("certificate code collision")

// InsertIfAbsent inserts the certificate unless one already exists for
// the (user, course) pair, in which case the existing row is returned
// with created=false. Race-free: both outcomes rest on the composite
// unique index, not an in-process check.
func (r *CertificateRepository) InsertIfAbsent(cert *model.Certificate) (stored *model.Certificate, created bool, err error) {
	err = r.DB.Create(cert).Error
	if err == nil {
		return cert, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	// Duplicate key: either the pair already holds a certificate, or a
	// generated number/verification code collided with another row.
	existing, ferr := r.FindByUserAndCourse(cert.UserID, cert.CourseID)
	if ferr == nil {
		return existing, false, nil
	}
	if errors.Is(ferr, gorm.ErrRecordNotFound) {
		return nil, false, ErrCodeCollision
	}
	return nil, false, ferr
}

func (r *CertificateRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("Course").Preload("User").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByVerificationCode(code string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("Course").Preload("User").
		Where("verification_code = ?", code).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}
