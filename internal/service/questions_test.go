package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to the sample file when no question PDFs exist", func(t *testing.T) {
		dir := t.TempDir()
		samplePath := filepath.Join(dir, "sample_questions.txt")
		content := "Question 1: What is the Tax Court?\n\nNot a question block.\n\nQuestion 2: Who bears the burden of proof?"
		require.NoError(t, os.WriteFile(samplePath, []byte(content), 0o644))

		svc := NewQuestionService(filepath.Join(dir, "missing"), samplePath)
		questions := svc.Load(ctx)

		require.Len(t, questions, 2)
		assert.Equal(t, "Sample Questions", questions[0].Source)
		assert.Contains(t, questions[0].Text, "What is the Tax Court?")
	})

	t.Run("falls back to the default set when nothing is available", func(t *testing.T) {
		dir := t.TempDir()

		svc := NewQuestionService(filepath.Join(dir, "missing"), filepath.Join(dir, "nope.txt"))
		questions := svc.Load(ctx)

		require.NotEmpty(t, questions)
		assert.Equal(t, "Default Questions", questions[0].Source)
	})

	t.Run("ignores non-PDF files in the questions directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("Question A-1 (2023) ignored"), 0o644))

		svc := NewQuestionService(dir, "")
		questions := svc.Load(ctx)

		// No PDFs and no sample file, so the defaults win.
		require.NotEmpty(t, questions)
		assert.Equal(t, "Default Questions", questions[0].Source)
	})
}

func TestQuestionService_Random(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	svc := NewQuestionService(filepath.Join(dir, "missing"), "")
	all := svc.Load(ctx)

	seen := map[string]bool{}
	for _, q := range all {
		seen[q.Text] = true
	}

	for i := 0; i < 10; i++ {
		q := svc.Random(ctx)
		assert.True(t, seen[q.Text])
	}
}
