// Package usecase implements the link allocation, click recording and
// analytics read paths on top of a link store.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/bytelink/internal/analytics"
	"github.com/vadimbarashkov/bytelink/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultShortCodeLength = 6
	DefaultMaxRetries = 5

	defaultPageLimit = 10
	maxPageLimit     = 100

	base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

type linkRepository interface {
	Reserve(ctx context.Context, shortCode string) error
	Save(ctx context.Context, link *entity.Link) (*entity.Link, error)
	RetrieveByID(ctx context.Context, id uuid.UUID) (*entity.Link, error)
	Update(ctx context.Context, id uuid.UUID, fn func(link *entity.Link) error) (*entity.Link, error)
	AppendClick(ctx context.Context, shortCode string, click entity.Click) (*entity.Link, error)
	ListActive(ctx context.Context, offset, limit int) ([]*entity.Link, error)
	CountActive(ctx context.Context) (int64, error)
	RetrieveAllActive(ctx context.Context) ([]*entity.Link, error)
}

type qrRenderer interface {
	Render(text string) (string, error)
}

type Option func(*LinkUseCase)

func WithShortCodeLength(n int) Option {
	return func(uc *LinkUseCase) {
		if n > 0 && n <= entity.MaxShortCodeLength {
			uc.shortCodeLength = n
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(uc *LinkUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(uc *LinkUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *LinkUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

// LinkUseCase allocates short codes, records clicks and serves link statistics.
type LinkUseCase struct {
	baseURL         string
	shortCodeLength int
	maxRetries      int
	linkRepo        linkRepository
	qr              qrRenderer
	logger          *slog.Logger
	now             func() time.Time
	generate        func(length int) (string, error)
}

// New builds a LinkUseCase. A nil qr leaves links without a QR code.
func New(baseURL string, linkRepo linkRepository, qr qrRenderer, opts ...Option) *LinkUseCase {
	uc := &LinkUseCase{
		baseURL:         baseURL,
		shortCodeLength: DefaultShortCodeLength,
		maxRetries:      DefaultMaxRetries,
		linkRepo:        linkRepo,
		qr:              qr,
		logger:          slog.Default(),
		now:             time.Now,
		generate: func(length int) (string, error) {
			return gonanoid.Generate(base62Alphabet, length)
		},
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *LinkUseCase) ShortenURL(ctx context.Context, originalURL, customCode string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ShortenURL"

	if err := entity.ValidateOriginalURL(originalURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		shortCode string
		err       error
	)
	if customCode != "" {
		shortCode, err = uc.reserveCustomCode(ctx, customCode)
	} else {
		shortCode, err = uc.reserveGeneratedCode(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate link id: %w", op, err)
	}

	now := uc.now()
	shortURL := entity.BuildShortURL(uc.baseURL, shortCode)

	link, err := uc.linkRepo.Save(ctx, &entity.Link{
		ID:          id,
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		ShortURL:    shortURL,
		QRCode:      uc.renderQRCode(ctx, shortURL),
		Analytics:   []entity.Click{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to save link: %w", op, err)
	}

	return link, nil
}

func (uc *LinkUseCase) reserveCustomCode(ctx context.Context, shortCode string) (string, error) {
	if err := entity.ValidateShortCode(shortCode); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := uc.linkRepo.Reserve(ctx, shortCode); err != nil {
		return "", fmt.Errorf("failed to reserve short code: %w", err)
	}
	return shortCode, nil
}

// reserveGeneratedCode retries only on ErrCodeTaken. Any other failure may
// have an unknown outcome at the store and is returned as is.
func (uc *LinkUseCase) reserveGeneratedCode(ctx context.Context) (string, error) {
	for i := 0; i < uc.maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		shortCode, err := uc.generate(uc.shortCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}

		err = uc.linkRepo.Reserve(ctx, shortCode)
		if err == nil {
			return shortCode, nil
		}
		if !errors.Is(err, entity.ErrCodeTaken) {
			return "", fmt.Errorf("failed to reserve short code: %w", err)
		}
	}

	return "", fmt.Errorf("%w after %d attempts", entity.ErrAllocationExhausted, uc.maxRetries)
}

func (uc *LinkUseCase) renderQRCode(ctx context.Context, shortURL string) string {
	if uc.qr == nil {
		return ""
	}

	qrCode, err := uc.qr.Render(shortURL)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to render qr code",
			slog.String("short_url", shortURL),
			slog.Any("err", err),
		)
		return ""
	}

	return qrCode
}

func (uc *LinkUseCase) RecordClick(ctx context.Context, shortCode string, click entity.Click) (*entity.ClickResult, error) {
	const op = "usecase.LinkUseCase.RecordClick"

	if err := entity.ValidateShortCode(shortCode); err != nil {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if click.Timestamp.IsZero() {
		click.Timestamp = uc.now()
	}

	link, err := uc.linkRepo.AppendClick(ctx, shortCode, click)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to record click: %w", op, err)
	}

	return &entity.ClickResult{
		OriginalURL: link.OriginalURL,
		Clicks:      link.Clicks,
	}, nil
}

func (uc *LinkUseCase) GetLinkAnalytics(ctx context.Context, id uuid.UUID) (*entity.LinkStats, error) {
	const op = "usecase.LinkUseCase.GetLinkAnalytics"

	link, err := uc.linkRepo.RetrieveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}

	return &entity.LinkStats{
		Link:    link,
		Summary: analytics.Summarize(link, uc.now()),
	}, nil
}

func (uc *LinkUseCase) ListLinks(ctx context.Context, page, limit int) (*entity.LinkPage, error) {
	const op = "usecase.LinkUseCase.ListLinks"

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total, err := uc.linkRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to count links: %w", op, err)
	}

	links, err := uc.linkRepo.ListActive(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &entity.LinkPage{
		Links: links,
		Pagination: entity.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalURLs:   total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

// ModifyLink keeps the previous short code reserved.
func (uc *LinkUseCase) ModifyLink(ctx context.Context, id uuid.UUID, changes entity.LinkChanges) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ModifyLink"

	if changes.OriginalURL != nil {
		if err := entity.ValidateOriginalURL(*changes.OriginalURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if changes.CustomCode != nil && *changes.CustomCode == "" {
		changes.CustomCode = nil
	}
	if changes.CustomCode != nil {
		if err := entity.ValidateShortCode(*changes.CustomCode); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	current, err := uc.linkRepo.RetrieveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link: %w", op, err)
	}
	if !current.IsActive {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	var shortCode, shortURL, qrCode string
	codeChanged := changes.CustomCode != nil && *changes.CustomCode != current.ShortCode
	if codeChanged {
		shortCode, err = uc.reserveCustomCode(ctx, *changes.CustomCode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		shortURL = entity.BuildShortURL(uc.baseURL, shortCode)
		qrCode = uc.renderQRCode(ctx, shortURL)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := uc.now()
	link, err := uc.linkRepo.Update(ctx, id, func(link *entity.Link) error {
		if !link.IsActive {
			return entity.ErrLinkNotFound
		}
		if changes.OriginalURL != nil {
			link.OriginalURL = *changes.OriginalURL
		}
		if codeChanged {
			link.ShortCode = shortCode
			link.ShortURL = shortURL
			link.QRCode = qrCode
		}
		link.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update link: %w", op, err)
	}

	return link, nil
}

func (uc *LinkUseCase) DeactivateLink(ctx context.Context, id uuid.UUID) error {
	const op = "usecase.LinkUseCase.DeactivateLink"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := uc.now()
	_, err := uc.linkRepo.Update(ctx, id, func(link *entity.Link) error {
		if link.IsActive {
			link.IsActive = false
			link.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: failed to deactivate link: %w", op, err)
	}

	return nil
}

func (uc *LinkUseCase) GetDashboard(ctx context.Context) (*entity.DashboardSummary, error) {
	const op = "usecase.LinkUseCase.GetDashboard"

	links, err := uc.linkRepo.RetrieveAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get links: %w", op, err)
	}

	summary := analytics.Dashboard(links, uc.now())

	return &summary, nil
}
