package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

func newExportServiceForTest(store *fakeStore) *ExportService {
	return NewExportService(store, newReportServiceForTest(store, nil), nil, fixedClock)
}

func TestExportServiceStudentReportCSV(t *testing.T) {
	svc := newExportServiceForTest(seededStore())

	file, err := svc.StudentReport(context.Background(), "s1", nil, nil, "csv")
	require.NoError(t, err)
	assert.Equal(t, "behavior_report_ada_lovelace_20240515.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Behavior,Type,Points,Notes,Teacher", lines[0])
	assert.Equal(t, "5/15/2024,Helping a Classmate,positive,5,,t", lines[1])
	assert.Equal(t, "5/12/2024,Off-task Behavior,negative,-2,,t", lines[2])
}

func TestExportServiceStudentSummariesPDF(t *testing.T) {
	svc := newExportServiceForTest(seededStore())

	file, err := svc.StudentSummaries(context.Background(), nil, nil, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest(seededStore())

	_, err := svc.StudentSummaries(context.Background(), nil, nil, "docx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportHeaderDropsEntryListing(t *testing.T) {
	lines := reportHeader("BEHAVIOR REPORT\nStudent: A\n\nSUMMARY:\n• Total Score: 1\n\nRECENT ENTRIES:\n• X - 1/1/2024")
	assert.Equal(t, []string{"BEHAVIOR REPORT", "Student: A", "", "SUMMARY:", "• Total Score: 1"}, lines)
}
