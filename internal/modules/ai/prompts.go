package ai

import (
	"fmt"
	"strings"
)

// Generation modes and difficulty tiers accepted by the gateway. Unknown
// values fall back to the first entry rather than failing: these are
// user-facing enums with sane defaults.
const (
	ModeExplain    = "explain"
	ModeSummarize  = "summarize"
	ModeQuiz       = "quiz"
	ModeFlashcards = "flashcards"

	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

const quizPromptTemplate = `Generate 5 %s level MCQs.

Format STRICTLY:
Q1. Question
A) Option
B) Option
C) Option
D) Option
Answer: Correct option letter

Topic:
%s`

const flashcardsPromptTemplate = `Generate 5 flashcards.
Format:
Q: Question
A: Answer
Topic:
%s`

// NormalizeMode returns mode if known, ModeExplain otherwise.
func NormalizeMode(mode string) string {
	switch mode {
	case ModeExplain, ModeSummarize, ModeQuiz, ModeFlashcards:
		return mode
	default:
		return ModeExplain
	}
}

// NormalizeDifficulty returns difficulty if known, DifficultyEasy otherwise.
func NormalizeDifficulty(difficulty string) string {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return difficulty
	default:
		return DifficultyEasy
	}
}

// BuildPrompt renders the provider-agnostic instruction for a topic. Quiz
// and flashcard prompts pin an exact answer format so downstream parsing
// stays reliable. Pure string construction; the caller bounds topic length.
func BuildPrompt(topic, mode, difficulty string) string {
	topic = strings.TrimSpace(topic)

	switch NormalizeMode(mode) {
	case ModeQuiz:
		return fmt.Sprintf(quizPromptTemplate, NormalizeDifficulty(difficulty), topic)
	case ModeFlashcards:
		return fmt.Sprintf(flashcardsPromptTemplate, topic)
	case ModeSummarize:
		return fmt.Sprintf("Summarize clearly with key points and concise examples:\n%s", topic)
	default:
		return fmt.Sprintf("Explain clearly in structured, easy language:\n%s", topic)
	}
}

// TruncateTopic bounds user input to maxLen runes before prompt building.
func TruncateTopic(topic string, maxLen int) string {
	runes := []rune(strings.TrimSpace(topic))
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen])
}
