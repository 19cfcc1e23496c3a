package usecase

import (
	"context"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

type CustomerUsecase struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
}

func NewCustomerUsecase(userRepo repository.UserRepository, customerRepo repository.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{
		userRepo:     userRepo,
		customerRepo: customerRepo,
	}
}

type ProfileView struct {
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	IsVerified  bool   `json:"is_verified"`
	TotalOrders int64  `json:"total_orders"`
	TotalSpent  int64  `json:"total_spent"`
}

type ProfileUpdateInput struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

// プロフィールが無ければ空で作って返す。
func (u *CustomerUsecase) GetProfile(ctx context.Context, userID int64) (*ProfileView, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	customer, err := u.customerRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildProfileView(user, customer), nil
}

// 渡されたフィールドだけ上書きする。
func (u *CustomerUsecase) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdateInput) (*ProfileView, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	customer, err := u.customerRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.City != nil {
		customer.City = *in.City
	}
	if in.State != nil {
		customer.State = *in.State
	}
	if in.PostalCode != nil {
		customer.PostalCode = *in.PostalCode
	}
	if in.Country != nil {
		customer.Country = *in.Country
	}

	if err := u.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return buildProfileView(user, customer), nil
}

func buildProfileView(user model.User, customer model.Customer) *ProfileView {
	return &ProfileView{
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       customer.Phone,
		Address:     customer.Address,
		City:        customer.City,
		State:       customer.State,
		PostalCode:  customer.PostalCode,
		Country:     customer.Country,
		IsVerified:  customer.IsVerified,
		TotalOrders: customer.TotalOrders,
		TotalSpent:  customer.TotalSpent,
	}
}
