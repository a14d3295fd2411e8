package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// Lead is a row of simulator_leads.
type Lead struct {
	ID                      uuid.UUID
	CreatedAt               time.Time
	UpdatedAt               time.Time
	SessionID               uuid.UUID
	Status                  string
	PostalCode              string
	City                    string
	State                   string
	MonthlyBillAmount       float64
	ConnectionType          string
	RoofType                string
	FullName                string
	PhoneNumber             string
	PhoneE164               *string
	Email                   string
	SystemSizeKWp           float64
	EstimatedMonthlySavings float64
	DisqualificationReason  *string
	Warnings                []string
	UTMSource               *string
	UTMMedium               *string
	UTMCampaign             *string
	UTMTerm                 *string
	UTMContent              *string
}

// CreateLeadParams holds the insertable columns. id and created_at are always
// assigned by the database.
type CreateLeadParams struct {
	SessionID               uuid.UUID
	Status                  string
	PostalCode              string
	City                    string
	State                   string
	MonthlyBillAmount       float64
	ConnectionType          string
	RoofType                string
	FullName                string
	PhoneNumber             string
	PhoneE164               *string
	Email                   string
	SystemSizeKWp           float64
	EstimatedMonthlySavings float64
	DisqualificationReason  *string
	Warnings                []string
	UTMSource               *string
	UTMMedium               *string
	UTMCampaign             *string
	UTMTerm                 *string
	UTMContent              *string
}

// QualificationUpdate holds recomputed qualification columns.
type QualificationUpdate struct {
	SystemSizeKWp           float64
	EstimatedMonthlySavings float64
	DisqualificationReason  *string
	Warnings                []string
}

type ListParams struct {
	Status        *string
	State         *string
	UTMSource     *string
	UTMCampaign   *string
	Search        string
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	Offset        int
	Limit         int
	SortBy        string
	SortOrder     string
}

// Repository persists simulator leads in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, created_at, updated_at, session_id, status, postal_code, city, state,
	monthly_bill_amount, connection_type, roof_type, full_name, phone_number, phone_e164, email,
	system_size_kwp, estimated_monthly_savings, disqualification_reason, warnings,
	utm_source, utm_medium, utm_campaign, utm_term, utm_content`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.CreatedAt, &lead.UpdatedAt, &lead.SessionID, &lead.Status, &lead.PostalCode, &lead.City, &lead.State,
		&lead.MonthlyBillAmount, &lead.ConnectionType, &lead.RoofType, &lead.FullName, &lead.PhoneNumber, &lead.PhoneE164, &lead.Email,
		&lead.SystemSizeKWp, &lead.EstimatedMonthlySavings, &lead.DisqualificationReason, &lead.Warnings,
		&lead.UTMSource, &lead.UTMMedium, &lead.UTMCampaign, &lead.UTMTerm, &lead.UTMContent,
	)
	if lead.Warnings == nil {
		lead.Warnings = []string{}
	}
	return lead, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	warnings := params.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO simulator_leads (
			session_id, status, postal_code, city, state, monthly_bill_amount, connection_type, roof_type,
			full_name, phone_number, phone_e164, email, system_size_kwp, estimated_monthly_savings,
			disqualification_reason, warnings, utm_source, utm_medium, utm_campaign, utm_term, utm_content
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING `+leadColumns,
		params.SessionID, params.Status, params.PostalCode, params.City, params.State, params.MonthlyBillAmount,
		params.ConnectionType, params.RoofType, params.FullName, params.PhoneNumber, params.PhoneE164, params.Email,
		params.SystemSizeKWp, params.EstimatedMonthlySavings, params.DisqualificationReason, warnings,
		params.UTMSource, params.UTMMedium, params.UTMCampaign, params.UTMTerm, params.UTMContent,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM simulator_leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// GetLatestBySession returns the most recent lead submitted from a session.
func (r *Repository) GetLatestBySession(ctx context.Context, sessionID uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM simulator_leads
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE simulator_leads SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateQualification overwrites the computed columns of a lead.
func (r *Repository) UpdateQualification(ctx context.Context, id uuid.UUID, update QualificationUpdate) error {
	warnings := update.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE simulator_leads
		SET system_size_kwp = $2, estimated_monthly_savings = $3, disqualification_reason = $4,
			warnings = $5, updated_at = now()
		WHERE id = $1
	`, id, update.SystemSizeKWp, update.EstimatedMonthlySavings, update.DisqualificationReason, warnings)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAfter pages through all leads in creation order, starting after the given cursor.
func (r *Repository) ListAfter(ctx context.Context, after time.Time, afterID uuid.UUID, limit int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM simulator_leads
		WHERE (created_at, id) > ($1, $2)
		ORDER BY created_at, id
		LIMIT $3
	`, after, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM simulator_leads l WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM simulator_leads l
		WHERE %s
		ORDER BY %s %s, l.id
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Status != nil {
		addEquals("l.status", *params.Status)
	}
	if params.State != nil {
		addEquals("l.state", strings.ToUpper(*params.State))
	}
	if params.UTMSource != nil {
		addEquals("l.utm_source", *params.UTMSource)
	}
	if params.UTMCampaign != nil {
		addEquals("l.utm_campaign", *params.UTMCampaign)
	}
	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(l.full_name ILIKE $%d OR l.phone_number ILIKE $%d OR l.email ILIKE $%d OR l.city ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, searchPattern)
		argIdx++
	}
	if params.CreatedAtFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.created_at >= $%d", argIdx))
		args = append(args, *params.CreatedAtFrom)
		argIdx++
	}
	if params.CreatedAtTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.created_at < $%d", argIdx))
		args = append(args, *params.CreatedAtTo)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "fullName":
		return "l.full_name"
	case "city":
		return "l.city"
	case "state":
		return "l.state"
	case "status":
		return "l.status"
	case "monthlyBillAmount":
		return "l.monthly_bill_amount"
	case "systemSizeKwp":
		return "l.system_size_kwp"
	default:
		return "l.created_at"
	}
}
