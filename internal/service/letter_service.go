package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/domain"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/genai"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/prompt"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/repository"
	"github.com/jfedak1/AI-Cover-Letter-Generator/internal/storage"
)

var (
	// ErrProfileMissing is returned when a generation is requested before the
	// caller's profile row exists.
	ErrProfileMissing = errors.New("profile not found")
	// ErrGenerationFailed wraps any generator failure. The request is a hard
	// stop at that point; nothing has been persisted.
	ErrGenerationFailed = errors.New("cover letter generation failed")
)

const recentWindowDays = 14

// GenerateRequest is the job posting a letter is generated for.
type GenerateRequest struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
}

// LetterService coordinates cover letter generation, retrieval and stats.
type LetterService interface {
	Generate(ctx context.Context, userID string, req GenerateRequest) (*domain.CoverLetter, error)
	List(ctx context.Context, userID string) ([]domain.CoverLetter, error)
	Get(ctx context.Context, userID, id string) (*domain.CoverLetter, error)
	Stats(ctx context.Context, userID string) (*domain.UsageStats, error)
}

type letterService struct {
	profiles  repository.ProfileRepository
	letters   repository.LetterRepository
	generator genai.Generator
	archive   storage.Service
	logger    *logrus.Logger
}

// NewLetterService wires the generation pipeline. archive may be nil when no
// archive bucket is configured.
func NewLetterService(
	profiles repository.ProfileRepository,
	letters repository.LetterRepository,
	generator genai.Generator,
	archive storage.Service,
	logger *logrus.Logger,
) LetterService {
	if logger == nil {
		logger = logrus.New()
	}
	return &letterService{
		profiles:  profiles,
		letters:   letters,
		generator: generator,
		archive:   archive,
		logger:    logger,
	}
}

// Generate builds the prompt from the caller's profile, calls the generator
// and persists the result. A failed generation persists nothing.
func (s *letterService) Generate(ctx context.Context, userID string, req GenerateRequest) (*domain.CoverLetter, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, err
	}

	rendered := prompt.BuildCoverLetterPrompt(profile, prompt.LetterRequest{
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
	})

	content, err := s.generator.GenerateCoverLetter(ctx, rendered)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	letter := &domain.CoverLetter{
		UserID:         userID,
		CompanyName:    req.CompanyName,
		JobTitle:       req.JobTitle,
		JobDescription: req.JobDescription,
		Content:        content,
	}
	if err := s.letters.Create(ctx, letter); err != nil {
		return nil, err
	}

	if s.archive != nil {
		if _, err := s.archive.ArchiveLetter(ctx, userID, letter.ID, letter.Content); err != nil {
			s.logger.Warnf("archive letter %s: %v", letter.ID, err)
		}
	}

	return letter, nil
}

func (s *letterService) List(ctx context.Context, userID string) ([]domain.CoverLetter, error) {
	return s.letters.ListByUser(ctx, userID)
}

func (s *letterService) Get(ctx context.Context, userID, id string) (*domain.CoverLetter, error) {
	return s.letters.GetByID(ctx, userID, id)
}

func (s *letterService) Stats(ctx context.Context, userID string) (*domain.UsageStats, error) {
	total, err := s.letters.CountByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -recentWindowDays)
	recent, err := s.letters.CountByUser(ctx, userID, &since)
	if err != nil {
		return nil, err
	}

	return &domain.UsageStats{
		TotalGenerated:        total,
		GeneratedLast14Days:   recent,
		EstimatedMinutesSaved: total * domain.EstimatedMinutesPerLetter,
	}, nil
}
