package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/seller"
	"github.com/sellora/pos-service/internal/seller/dto"
	"github.com/sellora/pos-service/pkg/logger"
)

type sellerUseCase struct {
	repo   seller.Repository
	logger logger.ZapLogger
}

func NewSellerUseCase(repo seller.Repository, log logger.ZapLogger) seller.UseCase {
	return &sellerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *sellerUseCase) CreateSeller(ctx context.Context, input *dto.CreateSellerInput) (*model.Seller, error) {
	if err := uc.checkUniqueness(ctx, input.Username, input.Email, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	s := &model.Seller{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		Username:  input.Username,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      input.Role,
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	uc.logger.Info("seller created", zap.String("seller_id", s.ID), zap.String("role", string(s.Role)))
	return s, nil
}

func (uc *sellerUseCase) GetSeller(ctx context.Context, id string) (*model.Seller, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperrors.ErrNotFound
	}
	return s, nil
}

func (uc *sellerUseCase) ListSellers(ctx context.Context, filters *dto.SellerFilters) ([]model.Seller, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *sellerUseCase) UpdateSeller(ctx context.Context, input *dto.UpdateSellerInput) (*model.Seller, error) {
	s, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperrors.ErrNotFound
	}

	if err := uc.checkUniqueness(ctx, input.Username, input.Email, input.ID); err != nil {
		return nil, err
	}

	s.Name = input.Name
	s.Username = input.Username
	s.Email = input.Email
	s.Phone = input.Phone
	s.Role = input.Role
	s.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *sellerUseCase) DeleteSeller(ctx context.Context, id string) error {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return apperrors.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// checkUniqueness verifies username and email against every seller except
// excludeID. Creation passes an empty excludeID so no row is skipped.
func (uc *sellerUseCase) checkUniqueness(ctx context.Context, username, email, excludeID string) error {
	unique, err := uc.repo.IsUsernameUnique(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Wrapf(apperrors.ErrConflict, "username already taken: %s", username)
	}

	unique, err = uc.repo.IsEmailUnique(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Wrapf(apperrors.ErrConflict, "email already taken: %s", email)
	}
	return nil
}
