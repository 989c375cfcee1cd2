package repositories

import (
	"context"
	"crew-route-service/internal/domain"
	"strings"
)

// FileRepository serves teams and jobs from a JSON fixture. It implements
// both repository ports and is used by the CLI and tests.
type FileRepository struct {
	seed *Seed
}

func NewFileRepository(path string) (*FileRepository, error) {
	seed, err := ReadSeed(path)
	if err != nil {
		return nil, err
	}
	return &FileRepository{seed: seed}, nil
}

func NewFileRepositoryFromSeed(seed *Seed) *FileRepository {
	if seed == nil {
		seed = &Seed{}
	}
	return &FileRepository{seed: seed}
}

func (r *FileRepository) LoadTeams(ctx context.Context, tenantID string) ([]domain.Team, error) {
	teams := make([]domain.Team, 0, len(r.seed.Teams))
	for _, t := range r.seed.Teams {
		if t.TenantID == tenantID {
			teams = append(teams, t.Team)
		}
	}
	return teams, nil
}

func (r *FileRepository) LoadJobs(ctx context.Context, date string, tenantID string) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0, len(r.seed.Jobs))
	for _, j := range r.seed.Jobs {
		if j.TenantID != tenantID || j.Date != date {
			continue
		}
		if strings.EqualFold(j.Status, "cancelled") {
			continue
		}
		jobs = append(jobs, j.Job)
	}
	return jobs, nil
}
