package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"sugarscape/internal/sims/sugarscape"
)

// SQLite writes runs and their per-tick statistics to a SQLite database.
type SQLite struct {
	conn *sqlx.DB
	run  string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &SQLite{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		grid_size INTEGER NOT NULL,
		population INTEGER NOT NULL,
		radius INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tick_stats (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		population INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		total_wealth INTEGER NOT NULL,
		avg_wealth REAL NOT NULL,
		avg_vision REAL NOT NULL,
		avg_metabolism REAL NOT NULL,
		gini REAL NOT NULL,
		total_sugar INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Begin registers the run; later Record calls attach to it.
func (db *SQLite) Begin(ctx context.Context, run RunInfo) error {
	cfgJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = db.conn.ExecContext(ctx, `INSERT INTO runs
		(id, started_at, grid_size, population, radius, seed, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339Nano),
		run.Config.GridSize, run.Config.Population, run.Config.Radius, run.Config.Seed,
		string(cfgJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	db.run = run.ID
	slog.Debug("run registered", "run", run.ID)
	return nil
}

// Record stores one tick of the current run.
func (db *SQLite) Record(ctx context.Context, st sugarscape.Stats) error {
	if db.run == "" {
		return errors.New("record before begin")
	}
	_, err := db.conn.ExecContext(ctx, `INSERT INTO tick_stats
		(run_id, tick, population, deaths, total_wealth, avg_wealth,
		 avg_vision, avg_metabolism, gini, total_sugar)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		db.run, st.Tick, st.Population, st.Deaths, st.TotalWealth, st.AvgWealth,
		st.AvgVision, st.AvgMetabolism, st.Gini, st.TotalSugar,
	)
	if err != nil {
		return fmt.Errorf("insert tick %d: %w", st.Tick, err)
	}
	return nil
}

// Close closes the database connection.
func (db *SQLite) Close() error {
	return db.conn.Close()
}

type tickRow struct {
	Tick          int     `db:"tick"`
	Population    int     `db:"population"`
	Deaths        int     `db:"deaths"`
	TotalWealth   int     `db:"total_wealth"`
	AvgWealth     float64 `db:"avg_wealth"`
	AvgVision     float64 `db:"avg_vision"`
	AvgMetabolism float64 `db:"avg_metabolism"`
	Gini          float64 `db:"gini"`
	TotalSugar    int     `db:"total_sugar"`
}

// Series loads the recorded history of a run in tick order.
func (db *SQLite) Series(ctx context.Context, runID string) (sugarscape.Series, error) {
	var rows []tickRow
	err := db.conn.SelectContext(ctx, &rows, `SELECT tick, population, deaths, total_wealth,
		avg_wealth, avg_vision, avg_metabolism, gini, total_sugar
		FROM tick_stats WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return sugarscape.Series{}, err
	}
	var s sugarscape.Series
	for _, r := range rows {
		s.Add(sugarscape.Stats(r))
	}
	return s, nil
}

// RunIDs lists recorded runs, newest first.
func (db *SQLite) RunIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := db.conn.SelectContext(ctx, &ids, "SELECT id FROM runs ORDER BY started_at DESC")
	return ids, err
}
