package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitwise74/portal-api/internal/model"
	"bitwise74/portal-api/internal/store"
)

type PendingInput struct {
	UserID      string
	StudentName string
	Course      string
	Image       string
	ImageID     string
}

// Applications records applications that were started but not submitted yet.
// The sweeper collects the ones that are never finished
type Applications struct {
	repo store.Repository
}

func NewApplications(repo store.Repository) *Applications {
	return &Applications{repo: repo}
}

func (a *Applications) CreatePending(ctx context.Context, in PendingInput) (*model.PendingApplication, error) {
	if in.UserID == "" || strings.TrimSpace(in.StudentName) == "" || strings.TrimSpace(in.Course) == "" {
		return nil, newError(ErrValidation, "Missing user ID, student name, or course")
	}

	acc, err := a.repo.Accounts().FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}

		return nil, fmt.Errorf("failed to get account, %w", err)
	}

	if !acc.Verified() {
		return nil, newError(ErrUnverified, "Please verify your account first")
	}

	p := &model.PendingApplication{
		UserID:      acc.ID,
		StudentName: strings.TrimSpace(in.StudentName),
		Course:      strings.TrimSpace(in.Course),
		Image:       in.Image,
		ImageID:     in.ImageID,
	}

	if err := a.repo.Pending().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create pending application, %w", err)
	}

	return p, nil
}
