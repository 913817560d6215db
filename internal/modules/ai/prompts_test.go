package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_Flashcards(t *testing.T) {
	prompt := BuildPrompt("Photosynthesis", ModeFlashcards, DifficultyMedium)
	assert.Contains(t, prompt, "Q:")
	assert.Contains(t, prompt, "A:")
	assert.Contains(t, prompt, "Photosynthesis")
	assert.Contains(t, prompt, "5 flashcards")
}

func TestBuildPrompt_Quiz(t *testing.T) {
	prompt := BuildPrompt("Gravity", ModeQuiz, DifficultyHard)
	assert.Contains(t, prompt, "5 Hard level MCQs")
	assert.Contains(t, prompt, "Q1.")
	assert.Contains(t, prompt, "Answer: Correct option letter")
	for _, marker := range []string{"A)", "B)", "C)", "D)"} {
		assert.Contains(t, prompt, marker)
	}
	assert.Contains(t, prompt, "Gravity")
}

func TestBuildPrompt_Summarize(t *testing.T) {
	prompt := BuildPrompt("Mitosis", ModeSummarize, DifficultyEasy)
	assert.Contains(t, prompt, "Summarize")
	assert.Contains(t, prompt, "key points")
	assert.Contains(t, prompt, "Mitosis")
}

func TestBuildPrompt_UnknownModeFallsBackToExplain(t *testing.T) {
	prompt := BuildPrompt("Entropy", "hack-the-planet", "Nightmare")
	assert.Contains(t, prompt, "Explain clearly")
	assert.Contains(t, prompt, "Entropy")
}

func TestNormalizeDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyMedium, NormalizeDifficulty("Medium"))
	assert.Equal(t, DifficultyEasy, NormalizeDifficulty("medium"), "enum matching is exact")
	assert.Equal(t, DifficultyEasy, NormalizeDifficulty(""))
}

func TestTruncateTopic(t *testing.T) {
	long := strings.Repeat("日", 3000)
	got := TruncateTopic(long, 2000)
	assert.Equal(t, 2000, len([]rune(got)))

	assert.Equal(t, "short", TruncateTopic("  short  ", 2000))
}
