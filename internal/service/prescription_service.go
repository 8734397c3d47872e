package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"medicart/internal/domain"
	"medicart/internal/events"
	"medicart/internal/repository"
)

const (
	prescriptionFolder = "prescriptions"
	sniffLen           = 3072
)

// FileSaver stores uploaded bytes and returns their public URL
type FileSaver interface {
	Save(folder, originalName string, r io.Reader) (string, error)
	Remove(url string) error
}

// PrescriptionService handles prescription uploads and staff review
type PrescriptionService struct {
	prescriptions repository.PrescriptionRepository
	medicines     repository.MedicineRepository
	files         FileSaver
	tx            repository.TxManager
	events        events.Publisher
	log           zerolog.Logger
}

func NewPrescriptionService(
	prescriptions repository.PrescriptionRepository,
	medicines repository.MedicineRepository,
	files FileSaver,
	tx repository.TxManager,
	publisher events.Publisher,
	log zerolog.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		medicines:     medicines,
		files:         files,
		tx:            tx,
		events:        publisher,
		log:           log,
	}
}

type PrescribedLine struct {
	MedicineID uint
	Quantity   int64
}

type VerifyInput struct {
	Status            domain.PrescriptionStatus
	VerificationNotes string
	// Medicines replaces the prescribed list when non-nil
	Medicines []PrescribedLine
}

// Upload stores an image and records a pending prescription for the caller.
// Both the declared content type and the file content must be an image.
func (s *PrescriptionService) Upload(ctx context.Context, caller *domain.User, filename, contentType string, r io.Reader) (*domain.Prescription, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrNotImage
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if !strings.HasPrefix(mimetype.Detect(head).String(), "image/") {
		return nil, ErrNotImage
	}

	url, err := s.files.Save(prescriptionFolder, filename, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return nil, err
	}
	p := domain.Prescription{
		UserID:   caller.ID,
		ImageURL: url,
		Status:   domain.PrescriptionPending,
	}
	if err := s.prescriptions.Create(ctx, &p); err != nil {
		if rmErr := s.files.Remove(url); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("url", url).Msg("remove orphaned upload")
		}
		return nil, err
	}
	return &p, nil
}

func (s *PrescriptionService) ListMine(ctx context.Context, caller *domain.User) ([]domain.Prescription, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	return s.prescriptions.ListByUser(ctx, caller.ID)
}

// Get returns the prescription to its owner or to staff
func (s *PrescriptionService) Get(ctx context.Context, caller *domain.User, id uint) (*domain.Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Prescription", id)
	}
	if err != nil {
		return nil, err
	}
	if caller == nil || (p.UserID != caller.ID && !isStaff(caller)) {
		return nil, ErrForbidden
	}
	return p, nil
}

// Verify records the staff decision and optionally the prescribed medicines
func (s *PrescriptionService) Verify(ctx context.Context, caller *domain.User, id uint, in VerifyInput) (*domain.Prescription, error) {
	if !isStaff(caller) {
		return nil, ErrForbidden
	}
	if !in.Status.Valid() {
		return nil, invalid("unknown prescription status " + string(in.Status))
	}
	seen := make(map[uint]bool, len(in.Medicines))
	for _, line := range in.Medicines {
		if line.MedicineID == 0 || line.Quantity < 1 {
			return nil, invalid("every medicine needs a medicine_id and a quantity of at least 1")
		}
		if seen[line.MedicineID] {
			return nil, invalid("medicine listed twice")
		}
		seen[line.MedicineID] = true
	}

	var updated *domain.Prescription
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.prescriptions.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Prescription", id)
		}
		if err != nil {
			return err
		}

		verifier := caller.ID
		p.Status = in.Status
		p.VerifiedBy = &verifier
		p.VerificationNotes = in.VerificationNotes
		if err := s.prescriptions.Update(ctx, p); err != nil {
			return err
		}

		if in.Medicines != nil {
			rows := make([]domain.PrescriptionMedicine, 0, len(in.Medicines))
			for _, line := range in.Medicines {
				if _, err := s.medicines.GetByID(ctx, line.MedicineID); err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return notFound("Medicine", line.MedicineID)
					}
					return err
				}
				rows = append(rows, domain.PrescriptionMedicine{MedicineID: line.MedicineID, Quantity: line.Quantity})
			}
			if err := s.prescriptions.ReplaceMedicines(ctx, p.ID, rows); err != nil {
				return err
			}
		}

		updated, err = s.prescriptions.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.log, events.TopicPrescriptions, events.Event{
		Type:       events.TypePrescriptionVerified,
		ID:         updated.ID,
		UserID:     updated.UserID,
		Status:     string(updated.Status),
		OccurredAt: time.Now().UTC(),
	})
	return updated, nil
}
