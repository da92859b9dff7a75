package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigbook/internal/core"
	"gigbook/internal/query"
	"gigbook/internal/storage"
)

type ProjectInput struct {
	Name             string
	ClientName       string
	ExpectedPayment  core.Money
	Status           core.ProjectStatus
	BudgetAllocation float64
	CreatedDate      time.Time
}

type ProjectService struct {
	storage *storage.SQLiteRepository
	stats   StatsInvalidator
}

func NewProjectService(storage *storage.SQLiteRepository, stats StatsInvalidator) *ProjectService {
	return &ProjectService{storage: storage, stats: stats}
}

func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*core.Project, error) {
	p := &core.Project{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             in.Name,
		ClientName:       in.ClientName,
		ExpectedPayment:  in.ExpectedPayment,
		Status:           in.Status,
		BudgetAllocation: in.BudgetAllocation,
		CreatedDate:      in.CreatedDate,
	}
	if p.Status == "" {
		p.Status = core.StatusActive
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, id string) (*core.Project, error) {
	return s.storage.GetProject(ctx, userID, id)
}

func (s *ProjectService) List(ctx context.Context, userID string, opts ListOptions) ([]core.Project, query.Pagination, error) {
	projects, total, err := s.storage.ListProjects(ctx, opts.projectQuery(userID), opts.page())
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return projects, query.Paginate(total, opts.page()), nil
}

func (s *ProjectService) Update(ctx context.Context, userID, id string, in ProjectInput) (*core.Project, error) {
	p, err := s.storage.GetProject(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.ClientName = in.ClientName
	p.ExpectedPayment = in.ExpectedPayment
	p.Status = in.Status
	p.BudgetAllocation = in.BudgetAllocation
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return p, nil
}

// Delete soft-deletes the project. Entries referencing it keep their project
// id; breakdown joins substitute the unknown-project placeholders from then on.
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.SoftDeleteProject(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *ProjectService) invalidate(userID string) {
	if s.stats != nil {
		s.stats.Invalidate(userID)
	}
}
