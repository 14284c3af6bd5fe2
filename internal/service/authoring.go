package service

import (
	"context"
	"fmt"

	"github.com/debiasdaily/debias/internal/catalog"
)

// AddUserBias validates and stores a learner-authored bias. An empty id is
// derived from the title. Ids already in the catalog are rejected.
func (s *Service) AddUserBias(ctx context.Context, b catalog.Bias) (catalog.Bias, error) {
	if b.ID == "" {
		b.ID = catalog.Slug(b.Title)
	}
	b, err := catalog.ValidateUserBias(b)
	if err != nil {
		return catalog.Bias{}, err
	}
	biases, err := s.Catalog(ctx)
	if err != nil {
		return catalog.Bias{}, err
	}
	if _, exists := catalog.Find(biases, b.ID); exists {
		return catalog.Bias{}, fmt.Errorf("%w: id %q already exists", catalog.ErrInvalidBias, b.ID)
	}

	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := s.store.UserBiases().Put(ctx, b); err != nil {
		s.log.Error("save user bias failed", "bias_id", b.ID, "error", err)
		return catalog.Bias{}, err
	}
	s.log.Info("user bias added", "bias_id", b.ID, "category", string(b.Category))
	return b, nil
}

// RemoveUserBias deletes a learner-authored bias and its progress record.
// Core biases cannot be removed.
func (s *Service) RemoveUserBias(ctx context.Context, id string) error {
	user, err := s.store.UserBiases().All(ctx)
	if err != nil {
		return err
	}
	if _, ok := catalog.Find(user, id); !ok {
		return unknown(id)
	}
	if err := s.store.UserBiases().Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user bias removed", "bias_id", id)
	return nil
}
