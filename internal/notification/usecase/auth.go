package usecase

import (
	"context"

	"github.com/shandysiswandi/shepherd/internal/notification/entity"
	"github.com/shandysiswandi/shepherd/internal/pkg/goerror"
	"github.com/shandysiswandi/shepherd/internal/pkg/jwt"
)

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) requireAdmin(ctx context.Context) (*jwt.Claims, error) {
	clm, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if clm.Role != entity.RoleAdmin {
		return nil, goerror.NewBusiness("admin role required", goerror.CodeForbidden)
	}

	return clm, nil
}
