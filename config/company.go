package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"hestia/internal/models"
)

// CompanyStore keeps the landlord profile loaded from a YAML file
type CompanyStore struct {
	path    string
	mu      sync.RWMutex
	company *models.Company
}

func NewCompanyStore(path string) *CompanyStore {
	return &CompanyStore{path: path}
}

// Load reads the profile from disk
func (s *CompanyStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	absPath, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read company file: %w", err)
	}

	var company models.Company
	if err := yaml.Unmarshal(data, &company); err != nil {
		return fmt.Errorf("failed to parse company file: %w", err)
	}
	if company.Name == "" {
		return fmt.Errorf("company file %s has no name", s.path)
	}

	s.company = &company
	return nil
}

// Get returns the loaded profile, or an empty one before Load
func (s *CompanyStore) Get() models.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.company == nil {
		return models.Company{}
	}
	return *s.company
}

// Update replaces the profile and writes it back to disk
func (s *CompanyStore) Update(company models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&company)
	if err != nil {
		return fmt.Errorf("failed to marshal company: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write company file: %w", err)
	}

	s.company = &company
	return nil
}
