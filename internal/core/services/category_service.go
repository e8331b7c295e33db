package services

import (
	"context"
	"fmt"
	"time"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	"github.com/agustinvidal/fintrack/internal/core/domain"
	portsrepo "github.com/agustinvidal/fintrack/internal/core/ports/repositories"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/google/uuid"
)

// categoryService provides business logic for transaction categories.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a category for the user.
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	now := time.Now()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       req.Name,
		Kind:       req.Kind,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "failed to save category", "category_name", req.Name)
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	s.LogInfo(ctx, "category created", "category_id", category.CategoryID)
	return &category, nil
}

// GetCategoryByID retrieves a category and enforces ownership.
func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID, userID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, fmt.Errorf("%w: category does not belong to user", apperrors.ErrForbidden)
	}
	return category, nil
}

// ListCategories retrieves the user's categories.
func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategoriesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
