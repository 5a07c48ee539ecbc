package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/ccrm-api/internal/models"
)

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{Headers: []string{"ID", "Name"}}
	data.Append("S1", "Aditi Rao")

	payload, err := NewPDFExporter().Render(data, "Student Directory")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestPDFExporterRenderTranscript(t *testing.T) {
	grade, err := models.NewGrade("S1", "CS101", 92)
	require.NoError(t, err)
	course, err := models.NewCourse("CS101", "Intro to Computing", 3, "CS", models.SemesterFall)
	require.NoError(t, err)

	transcript := models.NewTranscript("S1", "Aditi Rao", []models.TranscriptEntry{
		{Grade: *grade, Course: course},
	})

	payload, err := NewPDFExporter().RenderTranscript(transcript)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
	assert.NotEmpty(t, payload)
}
