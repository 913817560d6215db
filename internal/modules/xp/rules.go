package xp

// Point awards per action. Chat actions earn by mode; quiz submissions earn
// a base plus a per-correct-answer bonus.
const (
	PointsExplain    = 8
	PointsSummarize  = 10
	PointsFlashcards = 12
	PointsQuiz       = 15
	PointsPDFBonus   = 5
	PointsQuizSubmit = 20
	PointsPerCorrect = 5
)

// Rules exposes the award table for the XP-center endpoint.
func Rules() map[string]int {
	return map[string]int{
		"explain":            PointsExplain,
		"summarize":          PointsSummarize,
		"flashcards":         PointsFlashcards,
		"quiz":               PointsQuiz,
		"pdf_bonus":          PointsPDFBonus,
		"quiz_submit_base":   PointsQuizSubmit,
		"per_correct_answer": PointsPerCorrect,
	}
}

// PointsForMode maps a generation mode to its chat award.
func PointsForMode(mode string) int {
	switch mode {
	case "summarize":
		return PointsSummarize
	case "flashcards":
		return PointsFlashcards
	case "quiz":
		return PointsQuiz
	default:
		return PointsExplain
	}
}
