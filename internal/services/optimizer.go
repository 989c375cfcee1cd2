package services

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/metrics"
	"crew-route-service/internal/platform/obs"
	"crew-route-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Options tunes one run. Zero values fall back to the optimizer defaults.
// DailyTargetRevenue is a pointer so an explicit 0 turns the revenue
// warning off while nil keeps the default.
type Options struct {
	StartTime          string
	MaxDriveMinutes    int
	DailyTargetRevenue *float64
}

// DefaultOptions match a typical crew day.
var DefaultOptions = Options{
	StartTime:          "08:00",
	MaxDriveMinutes:    45,
	DailyTargetRevenue: TargetRevenue(1200),
}

// TargetRevenue returns a DailyTargetRevenue value.
func TargetRevenue(v float64) *float64 { return &v }

func (o Options) withDefaults(d Options) Options {
	if strings.TrimSpace(o.StartTime) == "" {
		o.StartTime = d.StartTime
	}
	if o.MaxDriveMinutes <= 0 {
		o.MaxDriveMinutes = d.MaxDriveMinutes
	}
	if o.DailyTargetRevenue == nil {
		o.DailyTargetRevenue = d.DailyTargetRevenue
	}
	return o
}

func (o Options) targetRevenue() float64 {
	if o.DailyTargetRevenue == nil {
		return 0
	}
	return *o.DailyTargetRevenue
}

// Optimizer runs the end to end pipeline for one tenant and date:
// load, qualify teams, build the matrix, assign, sequence, schedule, audit.
type Optimizer struct {
	teams    ports.TeamRepository
	jobs     ports.JobRepository
	matrix   *MatrixBuilder
	defaults Options
	newRunID func() string
}

func NewOptimizer(teams ports.TeamRepository, jobs ports.JobRepository, matrix *MatrixBuilder, defaults Options) *Optimizer {
	return &Optimizer{
		teams:    teams,
		jobs:     jobs,
		matrix:   matrix,
		defaults: defaults.withDefaults(DefaultOptions),
		newRunID: uuid.NewString,
	}
}

// OptimizeRoutesForDate never fails for data problems (ungeocodable
// addresses, unqualified teams, capacity); those surface as unassigned jobs
// and warnings. It returns an error only for invalid options, repository
// failures, or a provider failure under PolicyFail.
func (o *Optimizer) OptimizeRoutesForDate(ctx context.Context, date, tenantID string, opts Options) (_ *domain.OptimizationResult, err error) {
	runID := o.newRunID()
	if obs.RequestID(ctx) == "" {
		ctx = obs.WithRequestID(ctx, runID)
	}
	defer obs.Time(ctx, "optimize.OptimizeRoutesForDate")(&err)
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.OptimizationRuns.WithLabelValues(outcome).Inc()
	}()

	opts = opts.withDefaults(o.defaults)
	if _, err := domain.ParseClock(opts.StartTime); err != nil {
		return nil, err
	}
	if strings.TrimSpace(date) == "" {
		return nil, errors.New("optimize: date must be non-empty")
	}

	teams, err := o.teams.LoadTeams(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	jobs, err := o.jobs.LoadJobs(ctx, date, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}

	result := &domain.OptimizationResult{
		RunID:      runID,
		TenantID:   tenantID,
		Date:       date,
		Routes:     []domain.OptimizedRoute{},
		Unassigned: []domain.UnassignedJob{},
		Warnings:   []string{},
	}
	log.Printf("req_id=%s op=optimize run_id=%s tenant=%s date=%s teams=%d jobs=%d",
		obs.RequestID(ctx), runID, tenantID, date, len(teams), len(jobs))

	if len(jobs) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("No jobs scheduled for %s", date))
		result.Summary = summarize(result, 0, 0)
		return result, nil
	}

	qualified := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		if why := t.Disqualification(); why != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Team %s skipped: %s", t.DisplayName(), why))
			continue
		}
		qualified = append(qualified, t)
	}

	if len(qualified) == 0 {
		result.Warnings = append(result.Warnings,
			"No teams available for routing: every team needs an active crew lead with home coordinates and a notification channel")
		result.Unassigned = noTeamsUnassigned(jobs)
		result.Summary = summarize(result, len(jobs), 0)
		return result, nil
	}

	locations := make([]domain.Location, 0, len(qualified)+len(jobs))
	for _, t := range qualified {
		home := *t.Lead.Home
		locations = append(locations, domain.Location{ID: domain.TeamHomeID(t.ID), Coordinates: &home})
	}
	for _, j := range jobs {
		locations = append(locations, domain.Location{ID: domain.JobSiteID(j.ID), Address: j.Address, Coordinates: j.Coordinates})
	}

	mr, err := o.matrix.PairwiseMatrix(ctx, locations)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, mr.Warnings...)

	// Resolved coordinates live on in-memory copies only.
	annotated := make([]domain.Job, len(jobs))
	jobsByID := make(map[string]domain.Job, len(jobs))
	for i, j := range jobs {
		if c, ok := mr.Coordinates[domain.JobSiteID(j.ID)]; ok {
			j.Coordinates = &c
		} else {
			j.Coordinates = nil
		}
		annotated[i] = j
		jobsByID[j.ID] = j
	}

	assignment := AssignJobs(annotated, qualified, mr.Matrix)
	result.Unassigned = append(result.Unassigned, assignment.Unassigned...)

	for _, t := range qualified {
		assigned := assignment.ByTeam[t.ID]
		if len(assigned) == 0 {
			continue
		}

		home := domain.TeamHomeID(t.ID)
		sites := make([]string, len(assigned))
		for i, id := range assigned {
			sites[i] = domain.JobSiteID(id)
		}

		ordered := SequenceStops(sites, home, mr.Matrix)
		jobIDs := make([]string, 0, len(ordered))
		for _, s := range ordered {
			id, _ := domain.JobIDFromSite(s)
			jobIDs = append(jobIDs, id)
		}

		stops, err := CalculateETAs(jobIDs, home, opts.StartTime, jobsByID, mr.Matrix)
		if err != nil {
			return nil, err
		}
		result.Routes = append(result.Routes, BuildRoute(t, opts.StartTime, stops))
	}

	result.Warnings = append(result.Warnings, AuditRoutes(result.Routes, opts.MaxDriveMinutes, opts.targetRevenue())...)
	result.Summary = summarize(result, len(jobs), len(qualified))
	result.Summary.MatrixSource = mr.Source
	return result, nil
}

func summarize(r *domain.OptimizationResult, totalJobs, teamsAvailable int) domain.Summary {
	s := domain.Summary{
		TotalJobs:      totalJobs,
		UnassignedJobs: len(r.Unassigned),
		TeamsAvailable: teamsAvailable,
		TeamsUsed:      len(r.Routes),
	}
	for _, route := range r.Routes {
		s.AssignedJobs += len(route.Stops)
		s.TotalDriveMinutes += route.TotalDriveMinutes
		s.TotalJobMinutes += route.TotalJobMinutes
		s.TotalRevenue += route.EstimatedRevenue
	}
	return s
}
