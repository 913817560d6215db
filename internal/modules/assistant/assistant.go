// Package assistant answers common product questions without calling any
// AI provider. Replies are matched by keyword against a small rule table.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/studybuddy/core/internal/models"
	"github.com/studybuddy/core/internal/modules/markdown"
	"gorm.io/gorm"
)

const (
	DefaultOwnerName = "Kishan Nishad"
	maxMessageLength = 1200
)

var motivationQuotes = []string{
	"Small progress every day beats big plans someday.",
	"You are one focused session away from a breakthrough.",
	"Discipline creates confidence—keep going.",
	"Learn deeply, not quickly. Depth wins.",
	"Consistency is your superpower.",
}

var ownerKeywords = []string{
	"kishan", "owner", "creator", "who made", "who built",
	"about you", "about owner", "about kishan", "linkedin",
}

type faqRule struct {
	keywords []string
	reply    func(username string) string
}

var faqRules = []faqRule{
	{
		keywords: []string{"hello", "hi", "hey"},
		reply: func(u string) string {
			return fmt.Sprintf("Hi %s! 👋 I’m your Study Buddy. Ask me about chat, XP, quiz, PDF, leaderboard, or profile settings.", u)
		},
	},
	{
		keywords: []string{"how to use", "how use", "start", "guide", "help"},
		reply: func(u string) string {
			return fmt.Sprintf("Sure %s, quick guide:\n"+
				"1) Open AI Chat and enter a prompt.\n"+
				"2) Pick mode (Explain/Summarize/Quiz/Flashcards).\n"+
				"3) Optionally upload PDF and click Analyze PDF.\n"+
				"4) Use Dashboard for stats/history.\n"+
				"5) Use XP Center to track progress and rules.", u)
		},
	},
	{
		keywords: []string{"xp", "points", "level", "badge"},
		reply: func(u string) string {
			return fmt.Sprintf("%s, XP is earned on tasks and quiz submits.\n"+
				"- Explain +8\n- Summarize +10\n- Flashcards +12\n- Quiz generate +15\n"+
				"- PDF bonus +5\n- Quiz submit base +20\n- +5 per correct answer", u)
		},
	},
	{
		keywords: []string{"leaderboard", "rank", "ranking"},
		reply: func(u string) string {
			return fmt.Sprintf("%s, open Leaderboard from sidebar to see XP ranking. Higher XP means better rank 🏆.", u)
		},
	},
	{
		keywords: []string{"quiz", "mcq", "test"},
		reply: func(u string) string {
			return fmt.Sprintf("%s, select Quiz mode in Chat, generate questions, then submit. You earn extra XP based on correct answers.", u)
		},
	},
	{
		keywords: []string{"pdf", "file", "upload"},
		reply: func(u string) string {
			return fmt.Sprintf("%s, in Chat use the file picker, then click Analyze PDF. You’ll also get PDF bonus XP ✨.", u)
		},
	},
	{
		keywords: []string{"theme", "dark", "light", "mode"},
		reply: func(u string) string {
			return fmt.Sprintf("%s, use the 🌓 Toggle Theme button in the sidebar to switch Dark/Light mode.", u)
		},
	},
	{
		keywords: []string{"profile", "password", "avatar"},
		reply: func(u string) string {
			return fmt.Sprintf("%s, open Profile page to change avatar and password settings.", u)
		},
	},
}

var ErrEmptyMessage = errors.New("message is required")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Reply is what the assistant endpoint returns.
type Reply struct {
	Reply    string `json:"reply"`
	Provider string `json:"provider"`
	Warning  string `json:"warning,omitempty"`
	Quote    string `json:"quote"`
}

// Answer resolves a user message against the rule table. The owner profile
// is loaded per request so edits take effect immediately.
func (s *Service) Answer(ctx context.Context, userID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if runes := []rune(message); len(runes) > maxMessageLength {
		message = string(runes[:maxMessageLength])
	}
	username := s.usernameFor(ctx, userID)

	profile := s.ownerProfileFor(ctx, userID)
	return &Reply{
		Reply:    cannedResponse(message, username, profile),
		Provider: "local-faq",
		Quote:    motivationQuotes[rand.Intn(len(motivationQuotes))],
	}, nil
}

func (s *Service) usernameFor(ctx context.Context, userID string) string {
	var user models.UserModel
	err := s.db.WithContext(ctx).Select("username").Where("id = ?", userID).First(&user).Error
	if err != nil || strings.TrimSpace(user.Username) == "" {
		return "Student"
	}
	return user.Username
}

func (s *Service) ownerProfileFor(ctx context.Context, userID string) *models.OwnerProfileModel {
	var row models.OwnerProfileModel
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		return &models.OwnerProfileModel{
			OwnerName:         DefaultOwnerName,
			OwnerStrengths:    "focused, consistent, disciplined learner",
			OwnerAchievements: "keeps improving every day",
		}
	}
	if strings.TrimSpace(row.OwnerName) == "" {
		row.OwnerName = DefaultOwnerName
	}
	return &row
}

func cannedResponse(message, username string, profile *models.OwnerProfileModel) string {
	text := strings.ToLower(strings.TrimSpace(message))

	if containsAny(text, ownerKeywords) {
		return ownerResponse(profile)
	}
	for _, rule := range faqRules {
		if containsAny(text, rule.keywords) {
			return rule.reply(username)
		}
	}
	return fmt.Sprintf("%s, I didn’t fully catch that, but I can still guide you.\n"+
		"Try asking one of these:\n"+
		"- how to use\n- how to gain xp\n- how quiz works\n- how to upload pdf\n- how leaderboard works", username)
}

func ownerResponse(profile *models.OwnerProfileModel) string {
	name, praise := ownerPraise(profile)

	var b strings.Builder
	fmt.Fprintf(&b, "%s is my owner. He is %s. He is growth-focused, consistent, and serious about quality work.", name, praise)

	if summary := firstLine(markdown.StripTags(profile.LinkedinSummary)); summary != "" {
		fmt.Fprintf(&b, "\nProfile highlight: %s", truncateRunes(summary, 180))
	}
	if url := strings.TrimSpace(profile.LinkedinURL); url != "" {
		fmt.Fprintf(&b, "\nLinkedIn: %s", url)
	}
	return b.String()
}

// ownerPraise joins up to two highlights from the profile. Without any it
// falls back to a generic line so the reply never reads empty.
func ownerPraise(profile *models.OwnerProfileModel) (name, praise string) {
	name = truncateRunes(strings.TrimSpace(profile.OwnerName), 80)
	if name == "" {
		name = DefaultOwnerName
	}

	var highlights []string
	if s := strings.TrimSpace(profile.OwnerStrengths); s != "" {
		highlights = append(highlights, s)
	}
	if a := strings.TrimSpace(profile.OwnerAchievements); a != "" {
		highlights = append(highlights, a)
	}
	if l := truncateRunes(firstLine(markdown.StripTags(profile.LinkedinSummary)), 140); l != "" {
		highlights = append(highlights, l)
	}
	if len(highlights) == 0 {
		highlights = append(highlights, "focused, consistent, growth-driven, and serious about learning")
	}
	if len(highlights) > 2 {
		highlights = highlights[:2]
	}
	return name, strings.Join(highlights, "; ")
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncateRunes(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}
