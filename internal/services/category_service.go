package services

import (
	"errors"
	"fmt"

	"plumbus/internal/models"
	"plumbus/internal/repositories"

	"gorm.io/gorm"
)

// CategoryService handles business logic for categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory persists a new category. The unique index on name turns a
// duplicate into ErrDuplicateCategory.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if err := s.repo.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, category.Name)
		}
		return err
	}
	return nil
}

// UpdateCategory replaces the mutable fields of an existing category.
func (s *CategoryService) UpdateCategory(id string, data *models.Category) (*models.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	category.Name = data.Name
	category.Description = data.Description

	if err := s.repo.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, data.Name)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Deletion is rejected while products
// still reference it; cascading would silently destroy catalog rows.
func (s *CategoryService) DeleteCategory(id string) error {
	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}

	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products still reference it", ErrCategoryInUse, count)
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return err
	}
	return nil
}
