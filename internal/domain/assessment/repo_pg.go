package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Input Profile Repository ===========

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

const profileCols = `id, label, weight, height, age, sex, activity_factor,
	waist, hip, heart_rate, systolic_bp, diastolic_bp, cardiac_output, cvp, vo2,
	mean_airway_pressure, fio2, hemoglobin, spo2, pao2, svo2, paco2, creatinine,
	glucose, insulin, triglycerides, total_cholesterol, hdl, albumin, bun, ethanol,
	sodium, potassium, chloride, bicarbonate, measured_osmolality, created_at, updated_at`

func (r *profileRepoPG) scanProfile(row pgx.Row) (*InputProfile, error) {
	var p InputProfile
	err := row.Scan(&p.ID, &p.Label, &p.Weight, &p.Height, &p.Age, &p.Sex, &p.ActivityFactor,
		&p.Waist, &p.Hip, &p.HeartRate, &p.SystolicBP, &p.DiastolicBP, &p.CardiacOutput, &p.CVP, &p.VO2,
		&p.MeanAirwayPressure, &p.FiO2, &p.Hemoglobin, &p.SpO2, &p.PaO2, &p.SvO2, &p.PaCO2, &p.Creatinine,
		&p.Glucose, &p.Insulin, &p.Triglycerides, &p.TotalCholesterol, &p.HDL, &p.Albumin, &p.BUN, &p.Ethanol,
		&p.Sodium, &p.Potassium, &p.Chloride, &p.Bicarbonate, &p.MeasuredOsmolality, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *profileRepoPG) Create(ctx context.Context, p *InputProfile) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO input_profile (id, label, weight, height, age, sex, activity_factor,
			waist, hip, heart_rate, systolic_bp, diastolic_bp, cardiac_output, cvp, vo2,
			mean_airway_pressure, fio2, hemoglobin, spo2, pao2, svo2, paco2, creatinine,
			glucose, insulin, triglycerides, total_cholesterol, hdl, albumin, bun, ethanol,
			sodium, potassium, chloride, bicarbonate, measured_osmolality)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36)`,
		p.ID, p.Label, p.Weight, p.Height, p.Age, p.Sex, p.ActivityFactor,
		p.Waist, p.Hip, p.HeartRate, p.SystolicBP, p.DiastolicBP, p.CardiacOutput, p.CVP, p.VO2,
		p.MeanAirwayPressure, p.FiO2, p.Hemoglobin, p.SpO2, p.PaO2, p.SvO2, p.PaCO2, p.Creatinine,
		p.Glucose, p.Insulin, p.Triglycerides, p.TotalCholesterol, p.HDL, p.Albumin, p.BUN, p.Ethanol,
		p.Sodium, p.Potassium, p.Chloride, p.Bicarbonate, p.MeasuredOsmolality)
	return err
}

func (r *profileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*InputProfile, error) {
	p, err := r.scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileCols+` FROM input_profile WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepoPG) Update(ctx context.Context, p *InputProfile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE input_profile SET label=$2, weight=$3, height=$4, age=$5, sex=$6, activity_factor=$7,
			waist=$8, hip=$9, heart_rate=$10, systolic_bp=$11, diastolic_bp=$12, cardiac_output=$13,
			cvp=$14, vo2=$15, mean_airway_pressure=$16, fio2=$17, hemoglobin=$18, spo2=$19, pao2=$20,
			svo2=$21, paco2=$22, creatinine=$23, glucose=$24, insulin=$25, triglycerides=$26,
			total_cholesterol=$27, hdl=$28, albumin=$29, bun=$30, ethanol=$31, sodium=$32,
			potassium=$33, chloride=$34, bicarbonate=$35, measured_osmolality=$36, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Label, p.Weight, p.Height, p.Age, p.Sex, p.ActivityFactor,
		p.Waist, p.Hip, p.HeartRate, p.SystolicBP, p.DiastolicBP, p.CardiacOutput,
		p.CVP, p.VO2, p.MeanAirwayPressure, p.FiO2, p.Hemoglobin, p.SpO2, p.PaO2,
		p.SvO2, p.PaCO2, p.Creatinine, p.Glucose, p.Insulin, p.Triglycerides,
		p.TotalCholesterol, p.HDL, p.Albumin, p.BUN, p.Ethanol, p.Sodium,
		p.Potassium, p.Chloride, p.Bicarbonate, p.MeasuredOsmolality)
	return err
}

func (r *profileRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM input_profile WHERE id = $1`, id)
	return err
}

func (r *profileRepoPG) List(ctx context.Context, limit, offset int) ([]*InputProfile, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM input_profile`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+profileCols+` FROM input_profile ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*InputProfile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== Assessment Repository ===========

type assessmentRepoPG struct{ pool *pgxpool.Pool }

func NewAssessmentRepoPG(pool *pgxpool.Pool) AssessmentRepository {
	return &assessmentRepoPG{pool: pool}
}

const assessmentCols = `id, profile_id, category, inputs, results, created_at`

func (r *assessmentRepoPG) scanAssessment(row pgx.Row) (*Assessment, error) {
	var a Assessment
	err := row.Scan(&a.ID, &a.ProfileID, &a.Category, &a.Inputs, &a.Results, &a.CreatedAt)
	return &a, err
}

func (r *assessmentRepoPG) Create(ctx context.Context, a *Assessment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assessment (id, profile_id, category, inputs, results)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.ProfileID, a.Category, a.Inputs, a.Results)
	return err
}

func (r *assessmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	a, err := r.scanAssessment(r.pool.QueryRow(ctx, `SELECT `+assessmentCols+` FROM assessment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assessmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM assessment WHERE id = $1`, id)
	return err
}

func (r *assessmentRepoPG) List(ctx context.Context, limit, offset int) ([]*Assessment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessment`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+assessmentCols+` FROM assessment ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Assessment
	for rows.Next() {
		a, err := r.scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *assessmentRepoPG) ListByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessment WHERE profile_id = $1`, profileID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+assessmentCols+` FROM assessment WHERE profile_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, profileID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Assessment
	for rows.Next() {
		a, err := r.scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
