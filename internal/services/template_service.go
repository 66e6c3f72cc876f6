package services

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invitation-platform/internal/models"
)

// TemplateInput carries the admin-editable template fields
type TemplateInput struct {
	Name       string `json:"name" binding:"required,max=150"`
	Animation  string `json:"animation" binding:"required,max=50"`
	PreviewURL string `json:"preview_url" binding:"max=500"`
	Active     *bool  `json:"active"`
}

// AssetInput carries the metadata of an uploaded branding or media asset
type AssetInput struct {
	Kind        string `json:"kind" binding:"required,oneof=logo music gallery"`
	Name        string `json:"name" binding:"max=255"`
	URL         string `json:"url" binding:"required,max=500"`
	ContentType string `json:"content_type" binding:"max=100"`
}

// TemplateService manages the global template catalog and asset registry
type TemplateService struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{
		db:  db,
		log: zerolog.New(os.Stdout).With().Timestamp().Str("component", "templates").Logger(),
	}
}

// ListActive returns the templates offered to event owners
func (s *TemplateService) ListActive(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// ListAll returns every template, for the admin catalog view
func (s *TemplateService) ListAll(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Create adds a template to the catalog
func (s *TemplateService) Create(ctx context.Context, input TemplateInput) (*models.Template, error) {
	template := models.Template{
		Name:       input.Name,
		Animation:  input.Animation,
		PreviewURL: input.PreviewURL,
		Active:     true,
	}
	if input.Active != nil {
		template.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.log.Info().Uint("template_id", template.ID).Str("name", template.Name).Msg("template created")
	return &template, nil
}

// Update modifies an existing template
func (s *TemplateService) Update(ctx context.Context, templateID uint, input TemplateInput) (*models.Template, error) {
	var template models.Template
	if err := s.db.WithContext(ctx).First(&template, templateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	template.Name = input.Name
	template.Animation = input.Animation
	template.PreviewURL = input.PreviewURL
	if input.Active != nil {
		template.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Save(&template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return &template, nil
}

// Deactivate retires a template from pickers without breaking the events
// that already reference it
func (s *TemplateService) Deactivate(ctx context.Context, templateID uint) error {
	result := s.db.WithContext(ctx).Model(&models.Template{}).
		Where("id = ?", templateID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RegisterAsset records an uploaded asset under a fresh storage key. The
// bytes themselves are stored by the upload layer; this only tracks metadata.
func (s *TemplateService) RegisterAsset(ctx context.Context, uploadedBy uint, input AssetInput) (*models.Asset, error) {
	asset := models.Asset{
		Key:         uuid.NewString(),
		Kind:        input.Kind,
		Name:        input.Name,
		URL:         input.URL,
		ContentType: input.ContentType,
		UploadedBy:  uploadedBy,
	}

	if err := s.db.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, fmt.Errorf("failed to register asset: %w", err)
	}

	s.log.Info().Str("key", asset.Key).Str("kind", asset.Kind).Msg("asset registered")
	return &asset, nil
}

// ListAssets returns registered assets, optionally filtered by kind
func (s *TemplateService) ListAssets(ctx context.Context, kind string) ([]models.Asset, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}
