package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumeJSON = `{
	"contact": {"name": "Jane Doe", "email": "jane@example.com"},
	"experience": [{"id": "e1", "jobTitle": "Lead", "company": "Acme", "description": "- Led team"}],
	"skills": ["Go"]
}`

func writeResume(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(in, []byte(resumeJSON), 0o644))
	return dir, in
}

func TestRun_VectorPDF(t *testing.T) {
	dir, in := writeResume(t)
	out := filepath.Join(dir, "out.pdf")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--in", in, "--out", out}, &stdout))
	assert.Contains(t, stdout.String(), "1 pages")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))

	stdout.Reset()
	require.NoError(t, run(context.Background(), []string{"--inspect", out}, &stdout))
	assert.Contains(t, stdout.String(), "pages: 1")
	assert.Contains(t, stdout.String(), "Jane Doe")
}

func TestRun_HTML(t *testing.T) {
	dir, in := writeResume(t)
	labelsPath := filepath.Join(dir, "labels.yaml")
	require.NoError(t, os.WriteFile(labelsPath, []byte("skills: Toolbox\n"), 0o644))
	out := filepath.Join(dir, "out.html")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"--in", in, "--html", "--labels", labelsPath, "-o", out}, &stdout))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `id="printable-resume"`)
	assert.Contains(t, string(b), "TOOLBOX")
	assert.Contains(t, string(b), "EXPERIENCE")
}

func TestRun_Errors(t *testing.T) {
	var stdout bytes.Buffer
	assert.Error(t, run(context.Background(), nil, &stdout), "--in is required")

	_, in := writeResume(t)
	assert.Error(t, run(context.Background(), []string{"--in", in, "--backend", "svg"}, &stdout))
	assert.Error(t, run(context.Background(), []string{"--inspect", in}, &stdout), "json is not a pdf")
}
