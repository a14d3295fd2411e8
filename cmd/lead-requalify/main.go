package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simulador_solar_backend/internal/leads/repository"
	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/qualification"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/db"
	"simulador_solar_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize   = 100
	concurrency = 4
)

type qualificationUpdater interface {
	UpdateQualification(ctx context.Context, id uuid.UUID, update repository.QualificationUpdate) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead requalification")

	if !cfg.IsDatabaseEnabled() {
		log.Warn("DATABASE_URL not configured, nothing to requalify")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	table, err := qualification.LoadHSPTable(cfg.GetHSPTablePath())
	if err != nil {
		log.Error("failed to load HSP table", "error", err)
		panic("failed to load HSP table: " + err.Error())
	}
	engine := qualification.NewEngine(qualification.ConstantsFromConfig(cfg), table)

	repo := repository.New(pool)

	var (
		processed int
		updated   int
		cursorAt  time.Time
		cursorID  uuid.UUID
	)

	for {
		leads, err := repo.ListAfter(ctx, cursorAt, cursorID, batchSize)
		if err != nil {
			log.Error("failed to list leads", "error", err)
			break
		}
		if len(leads) == 0 {
			break
		}

		results := make([]bool, len(leads))
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(concurrency)
		for i, lead := range leads {
			i, lead := i, lead
			group.Go(func() error {
				ok, err := requalify(groupCtx, engine, repo, lead)
				if err != nil {
					log.Warn("requalification failed", "leadId", lead.ID, "error", err)
					return nil
				}
				results[i] = ok
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			log.Error("batch aborted", "error", err)
			break
		}

		for _, ok := range results {
			if ok {
				updated++
			}
		}
		processed += len(leads)

		last := leads[len(leads)-1]
		cursorAt, cursorID = last.CreatedAt, last.ID
		log.Info("requalification progress", "processed", processed, "updated", updated)

		if ctx.Err() != nil {
			break
		}
	}

	log.Info("lead requalification complete", "processed", processed, "updated", updated)
}

// requalify recomputes one lead and writes back only when a computed column changed.
func requalify(ctx context.Context, engine *qualification.Engine, store qualificationUpdater, lead repository.Lead) (bool, error) {
	res, err := engine.Qualify(toLeadData(lead))
	if err != nil {
		return false, err
	}

	update := repository.QualificationUpdate{
		SystemSizeKWp:           res.SystemSizeKWp,
		EstimatedMonthlySavings: res.EstimatedMonthlySavings,
		Warnings:                res.Warnings,
	}
	if res.DisqualificationReason != "" {
		reason := res.DisqualificationReason
		update.DisqualificationReason = &reason
	}

	if unchanged(lead, update) {
		return false, nil
	}
	if err := store.UpdateQualification(ctx, lead.ID, update); err != nil {
		return false, err
	}
	return true, nil
}

func toLeadData(lead repository.Lead) domain.LeadData {
	return domain.LeadData{
		PostalCode:        lead.PostalCode,
		City:              lead.City,
		State:             lead.State,
		MonthlyBillAmount: lead.MonthlyBillAmount,
		ConnectionType:    domain.ConnectionType(lead.ConnectionType),
		RoofType:          domain.RoofType(lead.RoofType),
		FullName:          lead.FullName,
		PhoneNumber:       lead.PhoneNumber,
		Email:             lead.Email,
	}
}

func unchanged(lead repository.Lead, update repository.QualificationUpdate) bool {
	if lead.SystemSizeKWp != update.SystemSizeKWp || lead.EstimatedMonthlySavings != update.EstimatedMonthlySavings {
		return false
	}
	if (lead.DisqualificationReason == nil) != (update.DisqualificationReason == nil) {
		return false
	}
	if lead.DisqualificationReason != nil && *lead.DisqualificationReason != *update.DisqualificationReason {
		return false
	}
	if len(lead.Warnings) != len(update.Warnings) {
		return false
	}
	for i := range lead.Warnings {
		if lead.Warnings[i] != update.Warnings[i] {
			return false
		}
	}
	return true
}
