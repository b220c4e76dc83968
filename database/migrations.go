package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"gorm.io/gorm"
)

// BackupDatabase creates a SQL dump with mysqldump when the MySQL backend is
// in use. SQLite deployments can copy the DB file instead; this is a no-op
// helper for them.
func BackupDatabase(dsn string, outPath string) error {
	if _, err := exec.LookPath("mysqldump"); err != nil {
		return fmt.Errorf("mysqldump not found in PATH: %w", err)
	}

	args := []string{os.Getenv("DB_BACKUP_FLAGS")}
	cmd := exec.CommandContext(context.Background(), "mysqldump", args...)
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	cmd.Stdout = outFile
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

// RunMigrationsWithBackup runs AutoMigrate for the given models after an
// optional best-effort backup (DB_BACKUP_PATH env).
func RunMigrationsWithBackup(db *gorm.DB, models ...interface{}) error {
	backupPath := os.Getenv("DB_BACKUP_PATH")
	if backupPath != "" {
		go func() {
			_ = BackupDatabase(os.Getenv("DB_DSN"), backupPath)
		}()
		time.Sleep(500 * time.Millisecond)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.AutoMigrate(models...); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	return nil
}
