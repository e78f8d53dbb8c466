package services

import (
	"gorm.io/gorm"

	"github.com/lumaensino/notify/internal/models"
)

// TemplateService is the template store: plain CRUD over notification
// templates. The dispatch pipeline only ever reads through Get.
type TemplateService struct {
	DB *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{DB: db}
}

// Create validates the payload and persists a new template. Invalid payloads
// come back as models.ValidationError.
func (s *TemplateService) Create(p *models.TemplatePayload) (*models.Template, error) {
	if ok, msg := p.Validate(); !ok {
		return nil, models.ValidationError(msg)
	}
	tmpl := &models.Template{}
	p.Apply(tmpl)
	if err := s.DB.Create(tmpl).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Get resolves a template by id. Returns gorm.ErrRecordNotFound when no such
// template exists.
func (s *TemplateService) Get(id string) (*models.Template, error) {
	var tmpl models.Template
	if err := s.DB.First(&tmpl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *TemplateService) List() ([]models.Template, error) {
	var list []models.Template
	if err := s.DB.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Update is a full replace of every caller-settable field. The payload is
// validated with the same rules as Create.
func (s *TemplateService) Update(id string, p *models.TemplatePayload) (*models.Template, error) {
	tmpl, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if ok, msg := p.Validate(); !ok {
		return nil, models.ValidationError(msg)
	}
	p.Apply(tmpl)
	if err := s.DB.Save(tmpl).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Delete removes a template and returns the deleted row.
func (s *TemplateService) Delete(id string) (*models.Template, error) {
	tmpl, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Delete(&models.Template{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}
