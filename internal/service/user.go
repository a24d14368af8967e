package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/storage"
)

var validate = validator.New()

type UserRequest struct {
	ID             string `json:"id" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required"`
	Age            string `json:"age,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Phone          string `json:"phone,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

func ValidateUserRequest(req *UserRequest) error {
	return validate.Struct(req)
}

// RegisterUser upserts the account profile keyed by the identity provider's
// user id.
func RegisterUser(ctx context.Context, users storage.UserRepository, req *UserRequest) (*internal.User, error) {
	user := &internal.User{
		ID:             req.ID,
		Email:          req.Email,
		Name:           req.Name,
		Age:            req.Age,
		DOB:            req.DOB,
		Phone:          req.Phone,
		MedicalHistory: req.MedicalHistory,
	}
	if existing, err := users.GetUser(ctx, req.ID); err == nil {
		user.Token = existing.Token
	}
	if err := users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type UserUpdateRequest struct {
	Email          string `json:"email" validate:"omitempty,email"`
	Name           string `json:"name,omitempty"`
	Age            string `json:"age,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Phone          string `json:"phone,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

func ValidateUserUpdateRequest(req *UserUpdateRequest) error {
	return validate.Struct(req)
}

// UpdateUser patches the profile; empty fields leave the stored value alone.
func UpdateUser(ctx context.Context, users storage.UserRepository, id string, req *UserUpdateRequest) (*internal.User, error) {
	user, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Age != "" {
		user.Age = req.Age
	}
	if req.DOB != "" {
		user.DOB = req.DOB
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.MedicalHistory != "" {
		user.MedicalHistory = req.MedicalHistory
	}
	if err := users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
