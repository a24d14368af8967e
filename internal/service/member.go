package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/suryard0605/medtrack/internal"
	"github.com/suryard0605/medtrack/internal/storage"
)

type MemberRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Age            string `json:"age,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Phone          string `json:"phone,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

func ValidateMemberRequest(req *MemberRequest) error {
	return validate.Struct(req)
}

func CreateMember(ctx context.Context, members storage.MemberRepository, user *internal.User, req *MemberRequest) (*internal.Member, error) {
	member := &internal.Member{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Name:           req.Name,
		Email:          req.Email,
		Age:            req.Age,
		DOB:            req.DOB,
		Phone:          req.Phone,
		MedicalHistory: req.MedicalHistory,
		CreatedAt:      time.Now(),
	}
	if err := members.SaveMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func UpdateMember(ctx context.Context, members storage.MemberRepository, id string, req *MemberRequest) (*internal.Member, error) {
	member, err := members.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	member.Name = req.Name
	member.Email = req.Email
	member.Age = req.Age
	member.DOB = req.DOB
	member.Phone = req.Phone
	member.MedicalHistory = req.MedicalHistory
	if err := members.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteMember removes the member only. Medicines and dose logs keep their
// references and drop out of aggregation as orphans.
func DeleteMember(ctx context.Context, members storage.MemberRepository, id string) error {
	return members.DeleteMember(ctx, id)
}
