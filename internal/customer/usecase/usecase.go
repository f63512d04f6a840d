package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sellora/pos-service/internal/apperrors"
	"github.com/sellora/pos-service/internal/customer"
	"github.com/sellora/pos-service/internal/customer/dto"
	"github.com/sellora/pos-service/internal/model"
	"github.com/sellora/pos-service/pkg/logger"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	now := time.Now()
	cust := &model.Customer{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		Address:   input.Address,
		Phone:     input.Phone,
		Email:     input.Email,
	}

	if err := uc.repo.Create(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	cust, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, apperrors.ErrNotFound
	}
	return cust, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	cust, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, apperrors.ErrNotFound
	}

	cust.Name = input.Name
	cust.Address = input.Address
	cust.Phone = input.Phone
	cust.Email = input.Email
	cust.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cust); err != nil {
		return nil, err
	}
	return cust, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
