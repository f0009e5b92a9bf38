package table

import "context"

type Service interface {
	GetTable(ctx context.Context, id uint) (*Table, error)
	ListTables(ctx context.Context, status string) ([]*Table, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetTable(ctx context.Context, id uint) (*Table, error) {
	return s.repo.GetTable(ctx, id)
}

// ListTables lists every table, or only those in status when it is non-empty.
func (s *service) ListTables(ctx context.Context, status string) ([]*Table, error) {
	if status == "" {
		return s.repo.ListTables(ctx, nil)
	}

	st := Status(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListTables(ctx, &st)
}
