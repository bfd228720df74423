package repositories

import (
	"context"
	"fmt"

	"story-cms/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const deleteProcedureSQL = `
CREATE OR REPLACE FUNCTION delete_post_by_id(post_id TEXT)
RETURNS integer
LANGUAGE plpgsql
SECURITY DEFINER
AS $$
DECLARE
  removed integer;
BEGIN
  DELETE FROM posts WHERE id::text = post_id;
  GET DIAGNOSTICS removed = ROW_COUNT;
  RETURN removed;
END;
$$;`

const fallbackAuthorName = "Community Contributor"

// Migrate creates the schema, the fallback author and, on postgres, the
// delete_post_by_id function.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := EnsureFallbackAuthor(ctx, db); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(deleteProcedureSQL).Error; err != nil {
			return fmt.Errorf("install delete_post_by_id: %w", err)
		}
		log.Info("delete procedure installed")
	} else {
		log.Info("skipping delete procedure", zap.String("dialect", db.Dialector.Name()))
	}

	log.Info("migrations complete")
	return nil
}

// EnsureFallbackAuthor creates the sentinel user intake falls back to.
func EnsureFallbackAuthor(ctx context.Context, db *gorm.DB) error {
	name := fallbackAuthorName
	user := models.User{
		ID:       models.FallbackAuthorID,
		FullName: &name,
		Role:     models.RoleWriter,
	}
	err := db.WithContext(ctx).
		Where("id = ?", models.FallbackAuthorID).
		FirstOrCreate(&user).Error
	if err != nil {
		return fmt.Errorf("ensure fallback author: %w", err)
	}
	return nil
}
