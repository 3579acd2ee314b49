package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/bytelink/internal/entity"
)

type LinkRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	base time.Time
	repo *LinkRepository
}

func (suite *LinkRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	suite.base = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func (suite *LinkRepositoryTestSuite) SetupSubTest() {
	suite.repo = NewLinkRepository()
}

func (suite *LinkRepositoryTestSuite) save(code string, createdAt time.Time) *entity.Link {
	suite.Require().NoError(suite.repo.Reserve(suite.ctx, code))

	link, err := suite.repo.Save(suite.ctx, &entity.Link{
		ID:          uuid.New(),
		OriginalURL: "https://example.com/" + code,
		ShortCode:   code,
		ShortURL:    "http://localhost:8080/" + code,
		IsActive:    true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	suite.Require().NoError(err)

	return link
}

func (suite *LinkRepositoryTestSuite) TestReserve() {
	suite.Run("code is taken once", func() {
		suite.NoError(suite.repo.Reserve(suite.ctx, "abc123"))
		suite.ErrorIs(suite.repo.Reserve(suite.ctx, "abc123"), entity.ErrCodeTaken)
	})

	suite.Run("codes are case sensitive", func() {
		suite.NoError(suite.repo.Reserve(suite.ctx, "abc123"))
		suite.NoError(suite.repo.Reserve(suite.ctx, "ABC123"))
	})

	suite.Run("deactivated link keeps its code", func() {
		link := suite.save("abc123", suite.base)

		_, err := suite.repo.Update(suite.ctx, link.ID, func(l *entity.Link) error {
			l.IsActive = false
			return nil
		})
		suite.Require().NoError(err)

		suite.ErrorIs(suite.repo.Reserve(suite.ctx, "abc123"), entity.ErrCodeTaken)
	})
}

func (suite *LinkRepositoryTestSuite) TestSave() {
	suite.Run("stored copy is isolated", func() {
		link := suite.save("abc123", suite.base)
		link.OriginalURL = "https://evil.example"

		got, err := suite.repo.RetrieveByID(suite.ctx, link.ID)

		suite.NoError(err)
		suite.Equal("https://example.com/abc123", got.OriginalURL)
		suite.NotNil(got.Analytics)
		suite.Zero(got.Clicks)
	})

	suite.Run("duplicate short code", func() {
		suite.save("abc123", suite.base)

		_, err := suite.repo.Save(suite.ctx, &entity.Link{ID: uuid.New(), ShortCode: "abc123"})

		suite.ErrorIs(err, entity.ErrCodeTaken)
	})
}

func (suite *LinkRepositoryTestSuite) TestRetrieveByID() {
	suite.Run("link not found", func() {
		got, err := suite.repo.RetrieveByID(suite.ctx, uuid.New())

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(got)
	})
}

func (suite *LinkRepositoryTestSuite) TestUpdate() {
	suite.Run("mutator error leaves the link unchanged", func() {
		link := suite.save("abc123", suite.base)
		errMutator := errors.New("mutator error")

		_, err := suite.repo.Update(suite.ctx, link.ID, func(l *entity.Link) error {
			l.OriginalURL = "https://example.org"
			return errMutator
		})
		suite.ErrorIs(err, errMutator)

		got, err := suite.repo.RetrieveByID(suite.ctx, link.ID)
		suite.NoError(err)
		suite.Equal("https://example.com/abc123", got.OriginalURL)
	})

	suite.Run("click stream cannot be rewritten", func() {
		link := suite.save("abc123", suite.base)
		_, err := suite.repo.AppendClick(suite.ctx, "abc123", entity.Click{Timestamp: suite.base})
		suite.Require().NoError(err)

		got, err := suite.repo.Update(suite.ctx, link.ID, func(l *entity.Link) error {
			l.Analytics = nil
			l.Clicks = 100
			return nil
		})

		suite.NoError(err)
		suite.Equal(int64(1), got.Clicks)
		suite.Len(got.Analytics, 1)
	})

	suite.Run("short code change moves the redirect", func() {
		link := suite.save("old001", suite.base)
		suite.Require().NoError(suite.repo.Reserve(suite.ctx, "new001"))

		_, err := suite.repo.Update(suite.ctx, link.ID, func(l *entity.Link) error {
			l.ShortCode = "new001"
			return nil
		})
		suite.Require().NoError(err)

		_, err = suite.repo.AppendClick(suite.ctx, "old001", entity.Click{Timestamp: suite.base})
		suite.ErrorIs(err, entity.ErrLinkNotFound)

		res, err := suite.repo.AppendClick(suite.ctx, "new001", entity.Click{Timestamp: suite.base})
		suite.NoError(err)
		suite.Equal(int64(1), res.Clicks)

		suite.ErrorIs(suite.repo.Reserve(suite.ctx, "old001"), entity.ErrCodeTaken)
	})

	suite.Run("short code owned by another link", func() {
		link := suite.save("abc123", suite.base)
		suite.save("xyz789", suite.base)

		_, err := suite.repo.Update(suite.ctx, link.ID, func(l *entity.Link) error {
			l.ShortCode = "xyz789"
			return nil
		})

		suite.ErrorIs(err, entity.ErrCodeTaken)
	})
}

func (suite *LinkRepositoryTestSuite) TestAppendClick() {
	suite.Run("unknown code", func() {
		got, err := suite.repo.AppendClick(suite.ctx, "nope00", entity.Click{Timestamp: suite.base})

		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(got)
	})

	suite.Run("inactive link", func() {
		link := suite.save("abc123", suite.base)
		_, err := suite.repo.Update(suite.ctx, link.ID, func(l *entity.Link) error {
			l.IsActive = false
			return nil
		})
		suite.Require().NoError(err)

		_, err = suite.repo.AppendClick(suite.ctx, "abc123", entity.Click{Timestamp: suite.base})
		suite.ErrorIs(err, entity.ErrLinkNotFound)

		got, err := suite.repo.RetrieveByID(suite.ctx, link.ID)
		suite.NoError(err)
		suite.Zero(got.Clicks)
		suite.Empty(got.Analytics)
	})

	suite.Run("clicks keep arrival order", func() {
		link := suite.save("abc123", suite.base)

		for i := 0; i < 3; i++ {
			res, err := suite.repo.AppendClick(suite.ctx, "abc123", entity.Click{
				Timestamp: suite.base.Add(-time.Duration(i) * time.Minute),
				Referer:   fmt.Sprintf("ref%d", i),
			})
			suite.Require().NoError(err)
			suite.Equal(int64(i+1), res.Clicks)
			suite.Nil(res.Analytics)
		}

		got, err := suite.repo.RetrieveByID(suite.ctx, link.ID)
		suite.NoError(err)
		suite.Require().Len(got.Analytics, 3)
		suite.Equal("ref0", got.Analytics[0].Referer)
		suite.Equal("ref2", got.Analytics[2].Referer)
	})
}

func (suite *LinkRepositoryTestSuite) TestListActive() {
	suite.Run("newest first with offset and limit", func() {
		for i := 0; i < 5; i++ {
			suite.save(fmt.Sprintf("code%02d", i), suite.base.Add(time.Duration(i)*time.Hour))
		}
		gone := suite.save("gone00", suite.base.Add(10*time.Hour))
		_, err := suite.repo.Update(suite.ctx, gone.ID, func(l *entity.Link) error {
			l.IsActive = false
			return nil
		})
		suite.Require().NoError(err)

		page, err := suite.repo.ListActive(suite.ctx, 1, 2)
		suite.NoError(err)
		suite.Require().Len(page, 2)
		suite.Equal("code03", page[0].ShortCode)
		suite.Equal("code02", page[1].ShortCode)

		page, err = suite.repo.ListActive(suite.ctx, 10, 2)
		suite.NoError(err)
		suite.NotNil(page)
		suite.Empty(page)

		n, err := suite.repo.CountActive(suite.ctx)
		suite.NoError(err)
		suite.Equal(int64(5), n)

		all, err := suite.repo.RetrieveAllActive(suite.ctx)
		suite.NoError(err)
		suite.Len(all, 5)
	})
}

func TestLinkRepository(t *testing.T) {
	suite.Run(t, new(LinkRepositoryTestSuite))
}

func TestLinkRepositoryConcurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("one winner per code", func(t *testing.T) {
		repo := NewLinkRepository()

		const n = 64
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			won int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := repo.Reserve(ctx, "race01"); err == nil {
					mu.Lock()
					won++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		if won != 1 {
			t.Fatalf("expected exactly one reservation to win, got %d", won)
		}
	})

	t.Run("counter equals stream length", func(t *testing.T) {
		repo := NewLinkRepository()
		if err := repo.Reserve(ctx, "busy01"); err != nil {
			t.Fatal(err)
		}
		link, err := repo.Save(ctx, &entity.Link{ID: uuid.New(), ShortCode: "busy01", IsActive: true})
		if err != nil {
			t.Fatal(err)
		}

		const workers, clicks = 16, 50
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < clicks; i++ {
					if _, err := repo.AppendClick(ctx, "busy01", entity.Click{Timestamp: time.Now()}); err != nil {
						t.Error(err)
						return
					}
				}
			}()
		}
		wg.Wait()

		got, err := repo.RetrieveByID(ctx, link.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Clicks != workers*clicks || len(got.Analytics) != workers*clicks {
			t.Fatalf("clicks = %d, analytics = %d, want %d", got.Clicks, len(got.Analytics), workers*clicks)
		}
	})
}
