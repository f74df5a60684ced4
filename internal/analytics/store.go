package analytics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file source
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

// AnalyticsEntry is the per-request record. The raw message text is
// deliberately absent: analytics must never contain user content.
type AnalyticsEntry struct {
	CreatedAt            time.Time `db:"created_at"`
	Emotion              string    `db:"emotion"`
	HarassmentDetected   bool      `db:"harassment_detected"`
	HarassmentConfidence float64   `db:"harassment_confidence"`
	ResponseTimeMs       float64   `db:"response_time_ms"`
}

// IncidentEntry records a detected harassment incident. No user text here
// either. IncidentID is the stable reference an operator can quote when
// following up on an alert; it is assigned on insert when left empty.
type IncidentEntry struct {
	IncidentID         string    `db:"incident_id"`
	CreatedAt          time.Time `db:"created_at"`
	Severity           float64   `db:"severity"`
	Emotion            string    `db:"emotion"`
	HarassmentDetected bool      `db:"harassment_detected"`
	ResponseTimeMs     float64   `db:"response_time_ms"`
}

// Stats is the aggregate view over logged incidents.
type Stats struct {
	TotalIncidents      int            `json:"total_incidents"`
	AverageSeverity     float64        `json:"average_severity"`
	MostCommonEmotion   string         `json:"most_common_emotion,omitempty"`
	EmotionDistribution map[string]int `json:"emotion_distribution,omitempty"`
}

// Store persists analytics and incident records.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open connects to the configured database. "sqlite" gets an inline schema
// migration; "postgres" runs file migrations from migrationsDir.
func Open(dbType, dsn, migrationsDir string, logger *zap.Logger) (*Store, error) {
	switch dbType {
	case "sqlite", "":
		return openSQLite(dsn, logger)
	case "postgres":
		return openPostgres(dsn, migrationsDir, logger)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func openSQLite(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS analytics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		emotion TEXT NOT NULL,
		harassment_detected BOOLEAN NOT NULL,
		harassment_confidence REAL NOT NULL,
		response_time_ms REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_created_at ON analytics(created_at);

	CREATE TABLE IF NOT EXISTS incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		incident_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		severity REAL NOT NULL,
		emotion TEXT NOT NULL,
		harassment_detected BOOLEAN NOT NULL,
		response_time_ms REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_incidents_created_at ON incidents(created_at);
	CREATE INDEX IF NOT EXISTS idx_incidents_emotion ON incidents(emotion);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Analytics store initialized", zap.String("driver", "sqlite"), zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func openPostgres(dsn, migrationsDir string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "empathai", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Analytics store initialized", zap.String("driver", "postgres"))
	return &Store{db: db, logger: logger}, nil
}

// LogAnalytics records one request's metrics.
func (s *Store) LogAnalytics(e AnalyticsEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := s.db.Rebind(`
		INSERT INTO analytics (created_at, emotion, harassment_detected, harassment_confidence, response_time_ms)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(query, e.CreatedAt, e.Emotion, e.HarassmentDetected, e.HarassmentConfidence, e.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log analytics: %w", err)
	}
	return nil
}

// LogIncident records one harassment incident.
func (s *Store) LogIncident(e IncidentEntry) error {
	if e.IncidentID == "" {
		e.IncidentID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := s.db.Rebind(`
		INSERT INTO incidents (incident_id, created_at, severity, emotion, harassment_detected, response_time_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(query, e.IncidentID, e.CreatedAt, e.Severity, e.Emotion, e.HarassmentDetected, e.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log incident: %w", err)
	}
	return nil
}

// GetStats aggregates logged incidents.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	var total int
	if err := s.db.Get(&total, "SELECT COUNT(*) FROM incidents"); err != nil {
		return nil, fmt.Errorf("failed to count incidents: %w", err)
	}
	stats.TotalIncidents = total
	if total == 0 {
		return stats, nil
	}

	if err := s.db.Get(&stats.AverageSeverity, "SELECT AVG(severity) FROM incidents"); err != nil {
		return nil, fmt.Errorf("failed to average severity: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT emotion, COUNT(*) AS count
		FROM incidents
		GROUP BY emotion
		ORDER BY count DESC, emotion
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query emotion distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var emotion string
		var count int
		if err := rows.Scan(&emotion, &count); err != nil {
			s.logger.Error("Failed to scan emotion count", zap.Error(err))
			continue
		}
		if stats.MostCommonEmotion == "" {
			stats.MostCommonEmotion = emotion
		}
		dist[emotion] = count
	}
	stats.EmotionDistribution = dist

	return stats, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
