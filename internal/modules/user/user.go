package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/models"
	"github.com/studybuddy/core/internal/modules/leveling"
	jwtpkg "github.com/studybuddy/core/internal/pkg/jwt"
	"github.com/studybuddy/core/internal/pkg/response"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Avatars a user may pick at signup or on the profile page.
var Avatars = []string{"🧙", "🦸", "🧠", "🤖", "🐉", "🦊", "🐼", "👾"}

const tokenTTL = 30 * 24 * time.Hour

type SignupDTO struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Avatar   string `json:"avatar"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangeAvatarDTO struct {
	Avatar string `json:"avatar" binding:"required"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type OwnerProfileDTO struct {
	OwnerName         string `json:"owner_name"`
	LinkedinURL       string `json:"linkedin_url"`
	LinkedinSummary   string `json:"linkedin_summary"`
	OwnerStrengths    string `json:"owner_strengths"`
	OwnerAchievements string `json:"owner_achievements"`
	// ImportLinkedin pulls the summary from a text mirror of the LinkedIn
	// URL instead of taking the client-supplied one.
	ImportLinkedin bool `json:"import_linkedin"`
}

type userResponse struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Avatar        string        `json:"avatar"`
	XP            int           `json:"xp"`
	Level         leveling.Info `json:"level"`
	LastLoginTime *time.Time    `json:"last_login_time"`
	LastLoginIP   string        `json:"last_login_ip"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

func toResponse(u *models.UserModel) *userResponse {
	return &userResponse{
		ID: u.ID, Username: u.Username, Avatar: u.Avatar,
		XP: u.XP, Level: leveling.ForXP(u.XP),
		LastLoginTime: u.LastLoginTime, LastLoginIP: u.LastLoginIP,
	}
}

type Service struct {
	db         *gorm.DB
	client     *http.Client
	timeout    time.Duration
	mirrorBase string
}

func NewService(db *gorm.DB, requestTimeout time.Duration) *Service {
	if requestTimeout <= 0 {
		requestTimeout = 25 * time.Second
	}
	return &Service{
		db:         db,
		client:     &http.Client{},
		timeout:    requestTimeout,
		mirrorBase: linkedinMirrorBase,
	}
}

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Signup(dto *SignupDTO) (*models.UserModel, error) {
	username := strings.TrimSpace(dto.Username)
	if len(username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters")
	}
	if len(dto.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	var count int64
	s.db.Model(&models.UserModel{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := models.UserModel{Username: username, Password: string(hash), Avatar: normalizeAvatar(dto.Avatar)}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Login(username, password, ip string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("invalid username or password")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid username or password")
	}

	now := time.Now()
	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})
	u.LastLoginTime = &now
	u.LastLoginIP = ip

	token, err := jwtpkg.Sign(u.ID, tokenTTL)
	return token, &u, err
}

func (s *Service) ChangeAvatar(id, avatar string) error {
	res := s.db.Model(&models.UserModel{}).Where("id = ?", id).Update("avatar", normalizeAvatar(avatar))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) ChangePassword(id, oldPwd, newPwd string) error {
	var u models.UserModel
	if err := s.db.Select("id, password").First(&u, "id = ?", id).Error; err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPwd)); err != nil {
		return fmt.Errorf("wrong password")
	}
	if len(newPwd) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(&u).Update("password", string(hash)).Error
}

// OwnerProfile returns the caller's assistant memory, or defaults when the
// profile has never been saved.
func (s *Service) OwnerProfile(userID string) (*models.OwnerProfileModel, error) {
	var row models.OwnerProfileModel
	err := s.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.OwnerProfileModel{UserID: userID}, nil
	}
	return &row, err
}

// SaveOwnerProfile upserts the per-user assistant memory. Field lengths are
// capped so a pasted profile dump cannot bloat the row.
func (s *Service) SaveOwnerProfile(ctx context.Context, userID string, dto *OwnerProfileDTO) (*models.OwnerProfileModel, error) {
	summary := dto.LinkedinSummary
	if dto.ImportLinkedin {
		imported, err := s.importLinkedinSummary(ctx, dto.LinkedinURL)
		if err != nil {
			return nil, err
		}
		summary = imported
	}

	row := models.OwnerProfileModel{
		UserID:            userID,
		OwnerName:         capRunes(strings.TrimSpace(dto.OwnerName), 80),
		LinkedinURL:       capRunes(strings.TrimSpace(dto.LinkedinURL), 300),
		LinkedinSummary:   capRunes(strings.TrimSpace(summary), 4000),
		OwnerStrengths:    capRunes(strings.TrimSpace(dto.OwnerStrengths), 400),
		OwnerAchievements: capRunes(strings.TrimSpace(dto.OwnerAchievements), 400),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"owner_name", "linkedin_url", "linkedin_summary",
			"owner_strengths", "owner_achievements", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return s.OwnerProfile(userID)
}

const (
	linkedinMirrorBase = "https://r.jina.ai/http://"
	linkedinFetchCap   = 1 << 20 // bytes read from the mirror before trimming
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// importLinkedinSummary fetches a plain-text mirror of the profile page.
// LinkedIn itself blocks anonymous scraping, so the fetch goes through a
// text-rendering proxy, bounded by the configured request timeout.
func (s *Service) importLinkedinSummary(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("please add your LinkedIn profile URL first")
	}
	if !strings.Contains(strings.ToLower(url), "linkedin.com") {
		return "", fmt.Errorf("please provide a valid LinkedIn URL")
	}

	mirror := s.mirrorBase + schemePattern.ReplaceAllString(url, "")
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, mirror, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not reach the LinkedIn mirror: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("linkedin import failed (%d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, linkedinFetchCap))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(body))
	if len(text) < 60 {
		return "", fmt.Errorf("could not extract enough LinkedIn data, paste profile details manually")
	}
	return capRunes(text, 4000), nil
}

func normalizeAvatar(avatar string) string {
	for _, a := range Avatars {
		if avatar == a {
			return avatar
		}
	}
	return Avatars[0]
}

func capRunes(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/user")

	g.POST("/signup", h.signup)
	g.POST("/login", h.login)

	a := g.Group("", authMW)
	a.GET("", h.me)
	a.PATCH("/avatar", h.changeAvatar)
	a.PATCH("/password", h.changePassword)
	a.GET("/owner-profile", h.getOwnerProfile)
	a.PUT("/owner-profile", h.saveOwnerProfile)
}

func (h *Handler) signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Signup(&dto)
	if err != nil {
		if err.Error() == "username already taken" {
			response.Conflict(c, err.Error())
			return
		}
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.Created(c, toResponse(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP())
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.OK(c, loginResponse{Token: token, User: toResponse(u)})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(u))
}

func (h *Handler) changeAvatar(c *gin.Context) {
	var dto ChangeAvatarDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ChangeAvatar(middleware.CurrentUserID(c), dto.Avatar); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ChangePassword(middleware.CurrentUserID(c), dto.OldPassword, dto.NewPassword); err != nil {
		if err.Error() == "wrong password" {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) getOwnerProfile(c *gin.Context) {
	profile, err := h.svc.OwnerProfile(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, profile)
}

func (h *Handler) saveOwnerProfile(c *gin.Context) {
	var dto OwnerProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	profile, err := h.svc.SaveOwnerProfile(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		if dto.ImportLinkedin {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, profile)
}
