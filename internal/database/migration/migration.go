package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

var steps = []migrationStep{
	{
		Name: "0001_create_companies_sheds_users",
		SQL: `CREATE TABLE IF NOT EXISTS companies (
  id         UUID        PRIMARY KEY,
  code       TEXT        NOT NULL UNIQUE,
  name       TEXT        NOT NULL,
  kind       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS sheds (
  id         UUID        PRIMARY KEY,
  company_id UUID        NOT NULL REFERENCES companies(id) ON DELETE RESTRICT,
  code       TEXT        NOT NULL,
  name       TEXT        NOT NULL,
  capacity   INTEGER     NOT NULL CHECK (capacity >= 0),
  levels     INTEGER     NOT NULL CHECK (levels >= 1),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (company_id, code)
);
CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY,
  name          TEXT        NOT NULL,
  email         TEXT        NOT NULL UNIQUE,
  role          TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "0002_create_ps_receives",
		SQL: `CREATE TABLE IF NOT EXISTS ps_receives (
  id              UUID        PRIMARY KEY,
  shipment_no     TEXT        NOT NULL UNIQUE,
  supplier        TEXT        NOT NULL,
  breed           TEXT        NOT NULL DEFAULT '',
  receive_date    DATE        NOT NULL,
  company_id      UUID        NOT NULL REFERENCES companies(id) ON DELETE RESTRICT,
  challan_male    INTEGER     NOT NULL CHECK (challan_male >= 0),
  challan_female  INTEGER     NOT NULL CHECK (challan_female >= 0),
  challan_total   INTEGER     NOT NULL CHECK (challan_total = challan_male + challan_female),
  remarks         TEXT        NOT NULL DEFAULT '',
  approval_status TEXT        NOT NULL DEFAULT 'pending',
  created_by      UUID,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS ps_chick_counts (
  id            UUID    PRIMARY KEY,
  ps_receive_id UUID    NOT NULL REFERENCES ps_receives(id) ON DELETE CASCADE,
  box_label     TEXT    NOT NULL,
  male_qty      INTEGER NOT NULL CHECK (male_qty >= 0),
  female_qty    INTEGER NOT NULL CHECK (female_qty >= 0),
  total_qty     INTEGER NOT NULL CHECK (total_qty = male_qty + female_qty)
);
CREATE TABLE IF NOT EXISTS ps_lab_transfers (
  id            UUID    PRIMARY KEY,
  ps_receive_id UUID    NOT NULL REFERENCES ps_receives(id) ON DELETE CASCADE,
  lab_name      TEXT    NOT NULL,
  purpose       TEXT    NOT NULL DEFAULT '',
  transfer_date DATE    NOT NULL,
  male_qty      INTEGER NOT NULL CHECK (male_qty >= 0),
  female_qty    INTEGER NOT NULL CHECK (female_qty >= 0),
  total_qty     INTEGER NOT NULL CHECK (total_qty = male_qty + female_qty)
);
CREATE INDEX IF NOT EXISTS idx_ps_receives_receive_date ON ps_receives (receive_date);
CREATE INDEX IF NOT EXISTS idx_ps_chick_counts_receive ON ps_chick_counts (ps_receive_id);
CREATE INDEX IF NOT EXISTS idx_ps_lab_transfers_receive ON ps_lab_transfers (ps_receive_id);`,
	},
	{
		Name: "0003_create_firm_and_shed_receives",
		SQL: `CREATE TABLE IF NOT EXISTS firm_receives (
  id              UUID        PRIMARY KEY,
  ps_receive_id   UUID        NOT NULL REFERENCES ps_receives(id) ON DELETE RESTRICT,
  company_id      UUID        NOT NULL REFERENCES companies(id) ON DELETE RESTRICT,
  receive_date    DATE        NOT NULL,
  male_qty        INTEGER     NOT NULL CHECK (male_qty >= 0),
  female_qty      INTEGER     NOT NULL CHECK (female_qty >= 0),
  total_qty       INTEGER     NOT NULL CHECK (total_qty = male_qty + female_qty),
  remarks         TEXT        NOT NULL DEFAULT '',
  approval_status TEXT        NOT NULL DEFAULT 'pending',
  created_by      UUID,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS shed_receives (
  id              UUID        PRIMARY KEY,
  firm_receive_id UUID        NOT NULL REFERENCES firm_receives(id) ON DELETE RESTRICT,
  shed_id         UUID        NOT NULL REFERENCES sheds(id) ON DELETE RESTRICT,
  receive_date    DATE        NOT NULL,
  male_qty        INTEGER     NOT NULL CHECK (male_qty >= 0),
  female_qty      INTEGER     NOT NULL CHECK (female_qty >= 0),
  total_qty       INTEGER     NOT NULL CHECK (total_qty = male_qty + female_qty),
  remarks         TEXT        NOT NULL DEFAULT '',
  approval_status TEXT        NOT NULL DEFAULT 'pending',
  created_by      UUID,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_firm_receives_ps ON firm_receives (ps_receive_id);
CREATE INDEX IF NOT EXISTS idx_shed_receives_firm ON shed_receives (firm_receive_id);`,
	},
	{
		Name: "0004_create_batch_assigns_and_transfers",
		SQL: `CREATE TABLE IF NOT EXISTS batch_assigns (
  id              UUID        PRIMARY KEY,
  shed_receive_id UUID        NOT NULL REFERENCES shed_receives(id) ON DELETE RESTRICT,
  shed_id         UUID        NOT NULL REFERENCES sheds(id) ON DELETE RESTRICT,
  level           INTEGER     NOT NULL CHECK (level >= 1),
  batch_no        TEXT        NOT NULL,
  assign_date     DATE        NOT NULL,
  male_qty        INTEGER     NOT NULL CHECK (male_qty >= 0),
  female_qty      INTEGER     NOT NULL CHECK (female_qty >= 0),
  total_qty       INTEGER     NOT NULL CHECK (total_qty = male_qty + female_qty),
  remarks         TEXT        NOT NULL DEFAULT '',
  approval_status TEXT        NOT NULL DEFAULT 'pending',
  created_by      UUID,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (shed_receive_id, batch_no)
);
CREATE TABLE IF NOT EXISTS bird_transfers (
  id                 UUID        PRIMARY KEY,
  batch_assign_id    UUID        NOT NULL REFERENCES batch_assigns(id) ON DELETE RESTRICT,
  to_batch_assign_id UUID        REFERENCES batch_assigns(id) ON DELETE RESTRICT,
  from_company_id    UUID        NOT NULL REFERENCES companies(id),
  from_shed_id       UUID        NOT NULL REFERENCES sheds(id),
  to_company_id      UUID        NOT NULL REFERENCES companies(id),
  to_shed_id         UUID        NOT NULL REFERENCES sheds(id),
  transfer_date      DATE        NOT NULL,
  recorded_male      INTEGER     NOT NULL,
  recorded_female    INTEGER     NOT NULL,
  recorded_total     INTEGER     NOT NULL,
  mortality_male     INTEGER     NOT NULL DEFAULT 0,
  mortality_female   INTEGER     NOT NULL DEFAULT 0,
  mortality_total    INTEGER     NOT NULL DEFAULT 0,
  excess_male        INTEGER     NOT NULL DEFAULT 0,
  excess_female      INTEGER     NOT NULL DEFAULT 0,
  excess_total       INTEGER     NOT NULL DEFAULT 0,
  shortage_male      INTEGER     NOT NULL DEFAULT 0,
  shortage_female    INTEGER     NOT NULL DEFAULT 0,
  shortage_total     INTEGER     NOT NULL DEFAULT 0,
  net_male           INTEGER     NOT NULL CHECK (net_male >= 0),
  net_female         INTEGER     NOT NULL CHECK (net_female >= 0),
  net_total          INTEGER     NOT NULL CHECK (net_total >= 0),
  remarks            TEXT        NOT NULL DEFAULT '',
  approval_status    TEXT        NOT NULL DEFAULT 'pending',
  created_by         UUID,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_batch_assigns_shed_receive ON batch_assigns (shed_receive_id);
CREATE INDEX IF NOT EXISTS idx_bird_transfers_source ON bird_transfers (batch_assign_id);
CREATE INDEX IF NOT EXISTS idx_bird_transfers_target ON bird_transfers (to_batch_assign_id);`,
	},
	{
		Name: "0005_create_flock_operations",
		SQL: `CREATE TABLE IF NOT EXISTS vaccine_schedules (
  id              UUID        PRIMARY KEY,
  batch_assign_id UUID        NOT NULL REFERENCES batch_assigns(id) ON DELETE RESTRICT,
  title           TEXT        NOT NULL,
  start_date      DATE        NOT NULL,
  remarks         TEXT        NOT NULL DEFAULT '',
  created_by      UUID,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS vaccine_stages (
  id             UUID        PRIMARY KEY,
  schedule_id    UUID        NOT NULL REFERENCES vaccine_schedules(id) ON DELETE CASCADE,
  stage_no       INTEGER     NOT NULL,
  stage_name     TEXT        NOT NULL,
  age_days       INTEGER     NOT NULL CHECK (age_days >= 0),
  vaccine_name   TEXT        NOT NULL,
  dose           TEXT        NOT NULL DEFAULT '',
  route          TEXT        NOT NULL DEFAULT '',
  scheduled_date DATE        NOT NULL,
  status         TEXT        NOT NULL DEFAULT 'pending',
  done_at        TIMESTAMPTZ,
  done_by        UUID,
  notes          TEXT        NOT NULL DEFAULT '',
  UNIQUE (schedule_id, stage_no)
);
CREATE TABLE IF NOT EXISTS egg_classifications (
  id              UUID        PRIMARY KEY,
  batch_assign_id UUID        NOT NULL REFERENCES batch_assigns(id) ON DELETE RESTRICT,
  classify_date   DATE        NOT NULL,
  total_eggs      INTEGER     NOT NULL CHECK (total_eggs >= 0),
  hatching        INTEGER     NOT NULL DEFAULT 0,
  commercial      INTEGER     NOT NULL DEFAULT 0,
  double_yolk     INTEGER     NOT NULL DEFAULT 0,
  cracked         INTEGER     NOT NULL DEFAULT 0,
  dirty           INTEGER     NOT NULL DEFAULT 0,
  small           INTEGER     NOT NULL DEFAULT 0,
  rejected        INTEGER     NOT NULL DEFAULT 0,
  remarks         TEXT        NOT NULL DEFAULT '',
  created_by      UUID,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (batch_assign_id, classify_date)
);
CREATE TABLE IF NOT EXISTS daily_operations (
  id                UUID          PRIMARY KEY,
  batch_assign_id   UUID          NOT NULL REFERENCES batch_assigns(id) ON DELETE RESTRICT,
  operation_date    DATE          NOT NULL,
  mortality_male    INTEGER       NOT NULL DEFAULT 0,
  mortality_female  INTEGER       NOT NULL DEFAULT 0,
  mortality_total   INTEGER       NOT NULL DEFAULT 0,
  culling_male      INTEGER       NOT NULL DEFAULT 0,
  culling_female    INTEGER       NOT NULL DEFAULT 0,
  culling_total     INTEGER       NOT NULL DEFAULT 0,
  feed_kg           NUMERIC(12,3) NOT NULL DEFAULT 0,
  water_liters      NUMERIC(12,3) NOT NULL DEFAULT 0,
  avg_body_weight_g NUMERIC(10,2) NOT NULL DEFAULT 0,
  eggs_collected    INTEGER       NOT NULL DEFAULT 0,
  remarks           TEXT          NOT NULL DEFAULT '',
  created_by        UUID,
  created_at        TIMESTAMPTZ   NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ   NOT NULL DEFAULT now(),
  UNIQUE (batch_assign_id, operation_date)
);
CREATE INDEX IF NOT EXISTS idx_vaccine_stages_due ON vaccine_stages (scheduled_date) WHERE status = 'pending';`,
	},
	{
		Name: "0006_create_approval_matrix",
		SQL: `CREATE TABLE IF NOT EXISTS approval_matrix_configs (
  id            UUID        PRIMARY KEY,
  module        TEXT        NOT NULL,
  name          TEXT        NOT NULL,
  is_active     BOOLEAN     NOT NULL DEFAULT true,
  timeout_hours INTEGER     NOT NULL DEFAULT 0 CHECK (timeout_hours >= 0),
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS uq_approval_matrix_active_module
  ON approval_matrix_configs (module) WHERE is_active;
CREATE TABLE IF NOT EXISTS approval_matrix_layers (
  id          UUID    PRIMARY KEY,
  config_id   UUID    NOT NULL REFERENCES approval_matrix_configs(id) ON DELETE CASCADE,
  layer_order INTEGER NOT NULL,
  name        TEXT    NOT NULL,
  role        TEXT    NOT NULL,
  is_active   BOOLEAN NOT NULL DEFAULT true,
  is_required BOOLEAN NOT NULL DEFAULT true,
  UNIQUE (config_id, layer_order)
);
CREATE TABLE IF NOT EXISTS approval_requests (
  id           UUID        PRIMARY KEY,
  config_id    UUID        NOT NULL REFERENCES approval_matrix_configs(id) ON DELETE RESTRICT,
  module       TEXT        NOT NULL,
  reference_id UUID        NOT NULL,
  status       TEXT        NOT NULL DEFAULT 'pending',
  requested_by UUID,
  expires_at   TIMESTAMPTZ,
  completed_at TIMESTAMPTZ,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS approval_actions (
  id         UUID        PRIMARY KEY,
  request_id UUID        NOT NULL REFERENCES approval_requests(id) ON DELETE CASCADE,
  layer_id   UUID        NOT NULL REFERENCES approval_matrix_layers(id) ON DELETE RESTRICT,
  user_id    UUID        NOT NULL,
  action     TEXT        NOT NULL,
  comment    TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (request_id, layer_id)
);
CREATE INDEX IF NOT EXISTS idx_approval_requests_status ON approval_requests (status);
CREATE INDEX IF NOT EXISTS idx_approval_requests_reference ON approval_requests (module, reference_id);`,
	},
}

// Migrate applies every step not yet recorded in schema_migrations, each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	log = log.With(zap.String("db_host", dbHost))

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Error("db_migration_failed", zap.String("migration_step", "schema_migrations"), zap.Error(err))
		return fmt.Errorf("create migration ledger: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Error("db_migration_failed", zap.Error(err))
		return err
	}

	pending := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		pending++
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	if pending == 0 {
		log.Info("db_migration_skip", zap.String("msg", "schema up to date"))
		return nil
	}
	log.Info("db_migration_success",
		zap.Int("applied", pending),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
