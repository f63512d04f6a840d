package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/internal/pos"
	"github.com/sellora/pos-service/internal/pos/dto"
	"github.com/sellora/pos-service/pkg/logger"
)

type posUseCase struct {
	repo   pos.Repository
	logger logger.ZapLogger
}

func NewPosUseCase(repo pos.Repository, log logger.ZapLogger) pos.UseCase {
	return &posUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *posUseCase) CreatePointOfSale(ctx context.Context, input *dto.CreatePointOfSaleInput) (*model.PointOfSale, error) {
	now := time.Now()

	description := &input.Description
	if input.Description == "" {
		description = nil
	}

	p := &model.PointOfSale{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        input.Name,
		Address:     input.Address,
		Phone:       input.Phone,
		Description: description,
		Status:      input.Status,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *posUseCase) GetPointOfSale(ctx context.Context, id string) (*model.PointOfSale, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (uc *posUseCase) ListPointsOfSale(ctx context.Context) ([]model.PointOfSale, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *posUseCase) UpdatePointOfSale(ctx context.Context, input *dto.UpdatePointOfSaleInput) (*model.PointOfSale, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.ErrNotFound
	}

	p.Name = input.Name
	p.Address = input.Address
	p.Phone = input.Phone
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	} else {
		p.Description = nil
	}
	p.Status = input.Status
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *posUseCase) DeletePointOfSale(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
