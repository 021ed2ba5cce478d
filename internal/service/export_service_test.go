package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engabdallh/attendance-registry/internal/models"
	appErrors "github.com/engabdallh/attendance-registry/pkg/errors"
)

type mockPersonLister struct {
	persons []models.Person
	err     error
}

func (m *mockPersonLister) All(ctx context.Context) ([]models.Person, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.persons, nil
}

func TestRenderRosterCSV(t *testing.T) {
	lister := &mockPersonLister{persons: []models.Person{
		{ID: 1, Name: "Alice", NationalID: "1111", Role: models.RoleStudent, Course: "math", Department: "science", Section: "A"},
		{ID: 2, Name: "Tariq", NationalID: "2222", Role: models.RoleTeacher, Course: "math"},
	}}
	svc := NewExportService(lister, zap.NewNop())

	payload, mime, filename, err := svc.RenderRoster(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", mime)
	assert.Equal(t, "roster.csv", filename)

	body := string(payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "National ID")
	assert.Contains(t, lines[1], "Alice")
	assert.Contains(t, lines[2], "Tariq")
}

func TestRenderRosterDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&mockPersonLister{}, zap.NewNop())

	_, mime, _, err := svc.RenderRoster(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", mime)
}

func TestRenderRosterPDF(t *testing.T) {
	lister := &mockPersonLister{persons: []models.Person{
		{ID: 1, Name: "Alice", NationalID: "1111", Role: models.RoleStudent, Course: "math"},
	}}
	svc := NewExportService(lister, zap.NewNop())

	payload, mime, filename, err := svc.RenderRoster(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)
	assert.Equal(t, "roster.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestRenderRosterUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&mockPersonLister{}, zap.NewNop())

	_, _, _, err := svc.RenderRoster(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
