package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"training_portal_backend/internal/model"
	"training_portal_backend/internal/repository"
	"training_portal_backend/internal/util"
	"training_portal_backend/pkg/logger"
	"training_portal_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// maxIssueRetries bounds regeneration after a certificate number or
	// verification code collides with an existing row.
	maxIssueRetries = 5

	verifyCacheTTL = time.Hour
)

// certificateNumberAlphabet avoids 0/O, 1/I/L and U so numbers read
// unambiguously on a printed certificate.
const certificateNumberAlphabet = "ABCDEFGHJKMNPQRSTVWXYZ23456789"

// RequestCertificate issues the certificate for the pair, exactly once.
// Repeated requests, including concurrent ones, all return the same
// stored certificate: the (user, course) unique index decides the
// winner and everyone else fetches that row.
func (s *CertificationService) RequestCertificate(userID, courseID uint) (*model.Certificate, error) {
	eligible, err := s.CheckEligibility(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, util.ErrNotEligible
	}

	for attempt := 0; attempt < maxIssueRetries; attempt++ {
		number, err := newCertificateNumber(courseID, time.Now())
		if err != nil {
			return nil, err
		}
		code, err := newVerificationCode()
		if err != nil {
			return nil, err
		}

		cert := &model.Certificate{
			UserID:            userID,
			CourseID:          courseID,
			CertificateNumber: number,
			VerificationCode:  code,
			IssuedAt:          time.Now(),
		}

		var stored *model.Certificate
		var created bool
		err = s.withRetry(func() error {
			var ierr error
			stored, created, ierr = s.CertificateRepo.InsertIfAbsent(cert)
			return ierr
		})
		if errors.Is(err, repository.ErrCodeCollision) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if created {
			monitoring.CertificatesIssued.Inc()
			logger.Log.Info("certificate issued",
				zap.Uint("userId", userID),
				zap.Uint("courseId", courseID),
				zap.String("certificateNumber", stored.CertificateNumber))
			// Reload with course and holder profile for display.
			return s.CertificateRepo.FindByUserAndCourse(userID, courseID)
		}
		return stored, nil
	}

	return nil, util.ErrCertificateIssuance
}

// ListCertificates returns the user's certificates, newest first.
func (s *CertificationService) ListCertificates(userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(userID)
}

// VerifyCertificate resolves a public verification code to its
// certificate. Lookups are cached; the artifact is immutable so stale
// reads are impossible.
func (s *CertificationService) VerifyCertificate(ctx context.Context, code string) (*model.Certificate, error) {
	cacheKey := "certificate:verify:" + code

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cert model.Certificate
			if err := json.Unmarshal([]byte(val), &cert); err == nil {
				return &cert, nil
			}
		}
	}

	cert, err := s.CertificateRepo.FindByVerificationCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(cert); err == nil {
			s.Redis.Set(ctx, cacheKey, payload, verifyCacheTTL)
		}
	}
	return cert, nil
}

// newCertificateNumber builds the human-presentable unique number,
// e.g. CERT-2026-C42-7KQ2MX.
func newCertificateNumber(courseID uint, now time.Time) (string, error) {
	suffix, err := randomFromAlphabet(certificateNumberAlphabet, 6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CERT-%d-C%d-%s", now.Year(), courseID, suffix), nil
}

// newVerificationCode returns an unguessable lookup token, independent
// of the certificate number.
func newVerificationCode() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)), nil
}

func randomFromAlphabet(alphabet string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
