package db

import (
	"fmt"

	types "github.com/yungbote/intelliplan-admin/internal/domain"
	"gorm.io/gorm"
)

// ChangeChannel is the NOTIFY channel carrying ids of users whose summary
// inputs changed.
const ChangeChannel = "intelliplan_user_changes"

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.GamificationProfile{},
		&types.Task{},
		&types.StudySession{},
		&types.Achievement{},
		&types.Subject{},
		&types.Feedback{},
		&types.AuditLog{},
	)
}

// EnsureChangeTriggers installs row triggers that NOTIFY ChangeChannel with
// the affected user id. Postgres only.
func EnsureChangeTriggers(db *gorm.DB) error {
	fn := fmt.Sprintf(`
CREATE OR REPLACE FUNCTION intelliplan_notify_user_change() RETURNS trigger AS $$
DECLARE
	uid text;
BEGIN
	IF TG_TABLE_NAME = 'users' THEN
		uid := COALESCE(NEW.id, OLD.id)::text;
	ELSE
		uid := COALESCE(NEW.user_id, OLD.user_id)::text;
	END IF;
	PERFORM pg_notify('%s', TG_TABLE_NAME || ':' || TG_OP || ':' || uid);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;`, ChangeChannel)
	if err := db.Exec(fn).Error; err != nil {
		return fmt.Errorf("create notify function: %w", err)
	}
	for _, table := range []string{types.CollectionUsers, types.CollectionGamification, types.CollectionTasks} {
		name := "intelliplan_notify_" + table
		if err := db.Exec(fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s;`, name, table)).Error; err != nil {
			return fmt.Errorf("drop trigger %s: %w", name, err)
		}
		stmt := fmt.Sprintf(`CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s
FOR EACH ROW EXECUTE FUNCTION intelliplan_notify_user_change();`, name, table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create trigger %s: %w", name, err)
		}
	}
	return nil
}
