package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/config"
)

// Open connects to the configured database for the given driver type.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = sqliteDDL
	case "mysql":
		stmts = mysqlDDL
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		department TEXT NOT NULL DEFAULT '',
		duration TEXT NOT NULL DEFAULT '',
		fees INTEGER NOT NULL DEFAULT 0,
		eligibility TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff_members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		department_id TEXT,
		employee_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		cabin TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(department_id) REFERENCES departments(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notices (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'general',
		published INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scholarships (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		provider TEXT NOT NULL DEFAULT '',
		amount TEXT NOT NULL DEFAULT '',
		eligibility TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS department_data (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'general',
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY(department_id) REFERENCES departments(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS department_accounts (
		id TEXT PRIMARY KEY,
		department_id TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY(department_id) REFERENCES departments(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS college_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS court_offices (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		room_number TEXT NOT NULL,
		building TEXT NOT NULL DEFAULT '',
		floor TEXT NOT NULL DEFAULT '',
		services TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_department ON staff_members(department_id)`,
	`CREATE INDEX IF NOT EXISTS idx_department_data_owner ON department_data(department_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notices_published ON notices(published, created_at)`,
}

var mysqlDDL = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(100) NOT NULL,
		department VARCHAR(255) NOT NULL DEFAULT '',
		duration VARCHAR(100) NOT NULL DEFAULT '',
		fees BIGINT NOT NULL DEFAULT 0,
		eligibility TEXT,
		description TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_courses_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS departments (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(100) NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_departments_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS staff_members (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		designation VARCHAR(255) NOT NULL DEFAULT '',
		department_id CHAR(36),
		employee_id VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		cabin VARCHAR(100) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_staff_employee (employee_id),
		INDEX idx_staff_department (department_id),
		CONSTRAINT fk_staff_department FOREIGN KEY (department_id) REFERENCES departments(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS events (
		id CHAR(36) NOT NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		venue VARCHAR(255) NOT NULL DEFAULT '',
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		INDEX idx_events_starts_at (starts_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS notices (
		id CHAR(36) NOT NULL,
		title VARCHAR(255) NOT NULL,
		body MEDIUMTEXT,
		category VARCHAR(100) NOT NULL DEFAULT 'general',
		published TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		INDEX idx_notices_published (published, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS scholarships (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		provider VARCHAR(255) NOT NULL DEFAULT '',
		amount VARCHAR(100) NOT NULL DEFAULT '',
		eligibility TEXT,
		deadline VARCHAR(100) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS department_data (
		id CHAR(36) NOT NULL,
		department_id CHAR(36) NOT NULL,
		category VARCHAR(100) NOT NULL DEFAULT 'general',
		title VARCHAR(255) NOT NULL,
		content MEDIUMTEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		INDEX idx_department_data_owner (department_id),
		CONSTRAINT fk_department_data_owner FOREIGN KEY (department_id) REFERENCES departments(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS department_accounts (
		id CHAR(36) NOT NULL,
		department_id CHAR(36) NOT NULL,
		username VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_department_accounts_username (username),
		CONSTRAINT fk_department_accounts_dept FOREIGN KEY (department_id) REFERENCES departments(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	"CREATE TABLE IF NOT EXISTS college_settings (\n\t\t`key` VARCHAR(100) NOT NULL,\n\t\tvalue MEDIUMTEXT NOT NULL,\n\t\tupdated_at DATETIME NOT NULL,\n\t\tPRIMARY KEY (`key`)\n\t) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	`CREATE TABLE IF NOT EXISTS court_offices (
		id CHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		room_number VARCHAR(50) NOT NULL,
		building VARCHAR(255) NOT NULL DEFAULT '',
		floor VARCHAR(50) NOT NULL DEFAULT '',
		services TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
