// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package store

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/attune-app/attune/internal/models"
)

// PutContentItem stores a catalog item.
func (s *Store) PutContentItem(ctx context.Context, item *models.ContentItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal content item: %w", err)
	}
	return s.put(contentKeyPrefix+item.ID, data)
}

// GetReadyContent returns every catalog item in the ready publication
// state, in key order. Draft and archived items are filtered at this layer
// so callers never see ineligible candidates.
func (s *Store) GetReadyContent(ctx context.Context) ([]models.ContentItem, error) {
	var items []models.ContentItem
	err := s.scanPrefix(contentKeyPrefix, func(val []byte) error {
		var item models.ContentItem
		if err := json.Unmarshal(val, &item); err != nil {
			return fmt.Errorf("unmarshal content item: %w", err)
		}
		if item.PublicationState == models.PublicationReady {
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// PutProgram stores a program document.
func (s *Store) PutProgram(ctx context.Context, program *models.Program) error {
	data, err := json.Marshal(program)
	if err != nil {
		return fmt.Errorf("marshal program: %w", err)
	}
	return s.put(programKeyPrefix+program.ID, data)
}

// GetProgram retrieves a program by ID. Returns ErrNotFound if absent.
func (s *Store) GetProgram(ctx context.Context, programID string) (*models.Program, error) {
	var program models.Program
	err := s.get(programKeyPrefix+programID, func(val []byte) error {
		return json.Unmarshal(val, &program)
	})
	if err != nil {
		return nil, err
	}
	return &program, nil
}
