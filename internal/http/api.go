package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/auth"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/service"
)

// IdentityProvider creates accounts and exchanges credentials for tokens.
type IdentityProvider interface {
	AdminCreateUser(ctx context.Context, email, password string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
}

// TokenVerifier resolves a bearer credential to the authenticated subject.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Subject, error)
}

const contextSubjectKey = "subject"

// Handler wires HTTP routes to domain services.
type Handler struct {
	provider IdentityProvider
	verifier TokenVerifier
	profiles service.ProfileService
	letters  service.LetterService
}

func NewHandler(provider IdentityProvider, verifier TokenVerifier, profiles service.ProfileService, letters service.LetterService) *Handler {
	return &Handler{
		provider: provider,
		verifier: verifier,
		profiles: profiles,
		letters:  letters,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/", h.root)
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/create-account", h.createAccount)
		authGroup.POST("/login", h.login)
	}

	profileGroup := router.Group("/profile", h.requireAuth())
	{
		profileGroup.GET("/me", h.getProfile)
		profileGroup.PUT("/me", h.updateProfile)
	}

	letterGroup := router.Group("/cover_letters", h.requireAuth())
	{
		letterGroup.GET("", h.listLetters)
		letterGroup.POST("", h.createLetter)
		letterGroup.GET("/:id", h.getLetter)
	}

	statsGroup := router.Group("/stats", h.requireAuth())
	{
		statsGroup.GET("", h.getStats)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth verifies the bearer credential and stores the subject in the
// request context. Every failure mode is a 401.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		subject, err := h.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(contextSubjectKey, subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	return header[len(prefix):], true
}

func subjectFrom(c *gin.Context) domain.Subject {
	subject, _ := c.MustGet(contextSubjectKey).(domain.Subject)
	return subject
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI Cover Letter Generator API"})
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// createAccount provisions the account, inserts the blank profile row, then
// signs the user in. Provider rejection aborts before the profile insert.
func (h *Handler) createAccount(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.provider.AdminCreateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	if err := h.profiles.CreateBlank(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	session, err := h.provider.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{AccessToken: session.AccessToken, TokenType: session.TokenType})
}

func (h *Handler) login(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	session, err := h.provider.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: session.AccessToken, TokenType: session.TokenType})
}

type ProfileResponse struct {
	UserID  string   `json:"user_id"`
	Name    *string  `json:"name"`
	Skills  []string `json:"skills"`
	Summary *string  `json:"summary"`
}

// UpdateProfileRequest distinguishes absent fields (left untouched) from
// fields explicitly present in the body.
type UpdateProfileRequest struct {
	Name    *string   `json:"name"`
	Skills  *[]string `json:"skills"`
	Summary *string   `json:"summary"`
}

func (h *Handler) getProfile(c *gin.Context) {
	subject := subjectFrom(c)

	profile, err := h.profiles.Get(c.Request.Context(), subject.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	c.JSON(http.StatusOK, profileToResponse(profile))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	subject := subjectFrom(c)
	profile, err := h.profiles.Update(c.Request.Context(), subject.ID, repository.UpdateProfileParams{
		Name:    req.Name,
		Skills:  req.Skills,
		Summary: req.Summary,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	c.JSON(http.StatusOK, profileToResponse(profile))
}

type CoverLetterRequest struct {
	CompanyName    string `json:"company_name" binding:"required"`
	JobTitle       string `json:"job_title" binding:"required"`
	JobDescription string `json:"job_description" binding:"required"`
}

type CoverLetterResponse struct {
	ID                        string `json:"id"`
	CompanyName               string `json:"company_name"`
	JobTitle                  string `json:"job_title"`
	JobDescription            string `json:"job_description"`
	Content                   string `json:"content"`
	CreatedAt                 string `json:"created_at"`
	EstimatedTimeSavedMinutes int    `json:"estimated_time_saved_minutes"`
}

func (h *Handler) listLetters(c *gin.Context) {
	subject := subjectFrom(c)

	letters, err := h.letters.List(c.Request.Context(), subject.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	resp := make([]CoverLetterResponse, len(letters))
	for i := range letters {
		resp[i] = letterToResponse(letters[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createLetter(c *gin.Context) {
	var req CoverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	subject := subjectFrom(c)
	letter, err := h.letters.Generate(c.Request.Context(), subject.ID, service.GenerateRequest{
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileMissing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profile not found"})
			return
		}
		if errors.Is(err, service.ErrGenerationFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": upstreamMessage(err)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, letterToResponse(*letter))
}

func (h *Handler) getLetter(c *gin.Context) {
	subject := subjectFrom(c)

	letter, err := h.letters.Get(c.Request.Context(), subject.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cover letter not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": upstreamMessage(err)})
		return
	}

	c.JSON(http.StatusOK, letterToResponse(*letter))
}

type StatsResponse struct {
	TotalGenerated        int `json:"total_generated"`
	GeneratedLast14Days   int `json:"generated_last_14_days"`
	EstimatedMinutesSaved int `json:"estimated_minutes_saved"`
}

func (h *Handler) getStats(c *gin.Context) {
	subject := subjectFrom(c)

	stats, err := h.letters.Stats(c.Request.Context(), subject.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not fetch stats"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalGenerated:        stats.TotalGenerated,
		GeneratedLast14Days:   stats.GeneratedLast14Days,
		EstimatedMinutesSaved: stats.EstimatedMinutesSaved,
	})
}

func profileToResponse(profile *domain.Profile) ProfileResponse {
	skills := profile.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileResponse{
		UserID:  profile.UserID,
		Name:    profile.Name,
		Skills:  skills,
		Summary: profile.Summary,
	}
}

func letterToResponse(letter domain.CoverLetter) CoverLetterResponse {
	return CoverLetterResponse{
		ID:                        letter.ID,
		CompanyName:               letter.CompanyName,
		JobTitle:                  letter.JobTitle,
		JobDescription:            letter.JobDescription,
		Content:                   letter.Content,
		CreatedAt:                 letter.CreatedAt.Format(time.RFC3339),
		EstimatedTimeSavedMinutes: domain.EstimatedMinutesPerLetter,
	}
}

// upstreamMessage surfaces the upstream service's message verbatim when one
// is available.
func upstreamMessage(err error) string {
	var providerErr *auth.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Message
	}
	return err.Error()
}
