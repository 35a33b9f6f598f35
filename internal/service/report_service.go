package service

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/clearlabel/transparency-api/internal/report"
	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// ReportService materializes transient PDF transparency reports. A rendered
// file lives only for the duration of one response: the handler deletes it
// after streaming, and the janitor worker sweeps anything a crash leaked.
type ReportService struct {
	productRepo *repository.ProductRepository
	answerRepo  *repository.AnswerRepository
	renderer    *report.Renderer
	dir         string
}

// NewReportService constructs a ReportService writing into dir.
func NewReportService(
	productRepo *repository.ProductRepository,
	answerRepo *repository.AnswerRepository,
	renderer *report.Renderer,
	dir string,
) *ReportService {
	return &ReportService{
		productRepo: productRepo,
		answerRepo:  answerRepo,
		renderer:    renderer,
		dir:         dir,
	}
}

// GeneratePDF renders the report for a product into a transient file and
// returns its path plus the download filename. Returns utils.ErrProductNotFound
// for unknown ids without invoking the renderer.
func (s *ReportService) GeneratePDF(productID int) (path, filename string, err error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", "", utils.ErrProductNotFound
		}
		return "", "", fmt.Errorf("failed to load product: %w", err)
	}

	answered, err := s.answerRepo.GetAnsweredQuestions(productID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load answers: %w", err)
	}

	// The on-disk name carries a random suffix so concurrent downloads of the
	// same report never collide; the download filename stays stable.
	path = filepath.Join(s.dir, fmt.Sprintf("transparency_report_%d_%s.pdf", productID, uuid.New().String()[:8]))
	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := s.renderer.Render(f, product, answered); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", "", fmt.Errorf("failed to finalize report file: %w", err)
	}

	return path, fmt.Sprintf("transparency_report_%d.pdf", productID), nil
}
