package service

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/report"
	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
)

func newReportService(t *testing.T) (*ReportService, sqlmock.Sqlmock, string) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	dir := t.TempDir()
	svc := NewReportService(
		repository.NewProductRepository(db),
		repository.NewAnswerRepository(db),
		report.NewRenderer(),
		dir,
	)
	return svc, mock, dir
}

func TestGeneratePDFUnknownProductWritesNothing(t *testing.T) {
	svc, mock, dir := newReportService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM products WHERE id = $1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(productColumns()))

	if _, _, err := svc.GeneratePDF(99); err != utils.ErrProductNotFound {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("report dir not empty: %v", entries)
	}
}

func TestGeneratePDFWritesValidFileWithStableFilename(t *testing.T) {
	svc, mock, dir := newReportService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM products WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(7, "Widget", "A useful widget", 42, time.Now()))

	mock.ExpectQuery(`SELECT a\.question_id AS question_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(answeredColumns()).
			AddRow("q1", "Recyclable?", "Yes").
			AddRow("q2", "Country of origin?", "Portugal"))

	path, filename, err := svc.GeneratePDF(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if filename != "transparency_report_7.pdf" {
		t.Fatalf("filename = %q", filename)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written outside configured dir: %s", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "transparency_report_7_") {
		t.Fatalf("on-disk name missing random suffix: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("report is not a PDF (%d bytes)", len(data))
	}
}
