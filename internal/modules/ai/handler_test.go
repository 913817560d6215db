package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/config"
	"github.com/studybuddy/core/internal/database"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/models"
	"github.com/studybuddy/core/internal/modules/xp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestAwardFor(t *testing.T) {
	points, action := awardFor(ModeExplain, ActionGenerate)
	assert.Equal(t, xp.PointsExplain, points)
	assert.Equal(t, "chat_explain_generate", action)

	points, action = awardFor(ModeSummarize, ActionPDF)
	assert.Equal(t, xp.PointsSummarize+xp.PointsPDFBonus, points)
	assert.Equal(t, "chat_summarize_pdf", action)

	points, action = awardFor(ModeQuiz, ActionPDF)
	assert.Equal(t, xp.PointsQuiz+xp.PointsPDFBonus, points)
	assert.Equal(t, "chat_quiz_pdf", action)
}

func TestNormalizeAction(t *testing.T) {
	assert.Equal(t, ActionPDF, NormalizeAction("pdf"))
	assert.Equal(t, ActionGenerate, NormalizeAction(""))
	assert.Equal(t, ActionGenerate, NormalizeAction("upload"))
}

func newGenerateRouter(t *testing.T) (*gin.Engine, *xp.Service, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	u := models.UserModel{Username: "alice", Password: "x", Avatar: "🧠"}
	require.NoError(t, db.Create(&u).Error)

	ledger := xp.NewService(db)
	backend := &fakeBackend{id: "gemini", configured: true, responses: []string{"answer", "answer", "answer"}}
	gw := newTestGateway(nil, backend)
	cfg := &config.AppConfig{RequestTimeout: 1}

	authStub := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, u.ID)
		c.Next()
	}

	r := gin.New()
	NewHandler(gw, ledger, cfg, nil).RegisterRoutes(r.Group("/api"), authStub)
	return r, ledger, u.ID
}

func postGenerate(t *testing.T, r *gin.Engine, body string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGenerateEndpoint_PDFBonus(t *testing.T) {
	r, ledger, userID := newGenerateRouter(t)

	out := postGenerate(t, r, `{"topic":"Cells","mode":"summarize","action":"pdf"}`)
	assert.EqualValues(t, xp.PointsSummarize+xp.PointsPDFBonus, out["xp_gained"])

	events, err := ledger.RecentEvents(context.Background(), userID, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "chat_summarize_pdf", events[0].Action)
	assert.Equal(t, xp.PointsSummarize+xp.PointsPDFBonus, events[0].Points)
}

func TestGenerateEndpoint_DefaultAction(t *testing.T) {
	r, ledger, userID := newGenerateRouter(t)

	out := postGenerate(t, r, `{"topic":"Cells"}`)
	assert.EqualValues(t, xp.PointsExplain, out["xp_gained"])

	events, err := ledger.RecentEvents(context.Background(), userID, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "chat_explain_generate", events[0].Action)
}
