package faq

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

const searchLimit = 50

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	out, err := s.repo.Categories(ctx)
	return out, common.DBErr(err, "faq categories")
}

func (s *Service) ItemsByCategory(ctx context.Context, categoryID uint64) ([]Item, error) {
	out, err := s.repo.ItemsByCategory(ctx, categoryID)
	return out, common.DBErr(err, "faq items")
}

// Item returns one item and counts the view.
func (s *Service) Item(ctx context.Context, id uint64) (*Item, error) {
	it, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, common.DBErr(err, "faq item")
	}
	if _, err := s.repo.Increment(ctx, id, "views"); err != nil {
		return nil, common.Unavailable(err)
	}
	it.Views++
	return it, nil
}

func (s *Service) Search(ctx context.Context, q string) ([]Item, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < 2 {
		return nil, common.Validation("search query must be at least 2 characters")
	}
	out, err := s.repo.Search(ctx, q, searchLimit)
	return out, common.DBErr(err, "faq items")
}

func (s *Service) MarkHelpful(ctx context.Context, id uint64, helpful bool) error {
	column := "not_helpful_count"
	if helpful {
		column = "helpful_count"
	}
	ok, err := s.repo.Increment(ctx, id, column)
	if err != nil {
		return common.Unavailable(err)
	}
	if !ok {
		return common.NotFound("faq item")
	}
	return nil
}

type CategoryInput struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, common.Validation("name is required")
	}
	sl := strings.TrimSpace(in.Slug)
	if sl == "" {
		sl = slug.Make(name)
	} else if !slug.IsSlug(sl) {
		return nil, common.Validation("slug %q is not a valid slug", sl)
	}
	c := &Category{
		Name:         name,
		Slug:         sl,
		Description:  in.Description,
		DisplayOrder: in.DisplayOrder,
		IsActive:     true,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, common.Unavailable(err)
	}
	return c, nil
}

type ItemInput struct {
	CategoryID   uint64 `json:"category_id" binding:"required"`
	Question     string `json:"question" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
	DisplayOrder int    `json:"display_order"`
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*Item, error) {
	q, a := strings.TrimSpace(in.Question), strings.TrimSpace(in.Answer)
	if q == "" || a == "" {
		return nil, common.Validation("question and answer are required")
	}
	if _, err := s.repo.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, common.DBErr(err, "faq category")
	}
	it := &Item{
		CategoryID:   in.CategoryID,
		Question:     q,
		Answer:       a,
		DisplayOrder: in.DisplayOrder,
		IsActive:     true,
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, common.Unavailable(err)
	}
	return it, nil
}
