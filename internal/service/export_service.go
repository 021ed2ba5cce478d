package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
	"github.com/engabdallh/attendance-registry/pkg/export"
)

type personLister interface {
	All(ctx context.Context) ([]models.Person, error)
}

// ExportService renders the full person roster as a downloadable document.
type ExportService struct {
	persons personLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(persons personLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		persons: persons,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

var rosterHeaders = []string{"ID", "Name", "National ID", "Role", "Course", "Department", "Section"}

// RenderRoster produces the roster in the requested format and returns the
// encoded document, its MIME type and a suggested filename.
func (s *ExportService) RenderRoster(ctx context.Context, format string) ([]byte, string, string, error) {
	persons, err := s.persons.All(ctx)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load roster")
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([][]string, 0, len(persons))}
	for _, p := range persons {
		dataset.Rows = append(dataset.Rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.NationalID,
			string(p.Role),
			p.Course,
			p.Department,
			p.Section,
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv roster")
		}
		return payload, "text/csv", "roster.csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Attendance Registry Roster")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf roster")
		}
		return payload, "application/pdf", "roster.pdf", nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
