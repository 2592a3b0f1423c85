package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelbites/reelbites-backend/pkg/migrate"
)

func TestInitMigrationContainsUniqueConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX like_records_user_food_key ON like_records (user_id, food_item_id)",
		"CREATE UNIQUE INDEX save_records_user_food_key ON save_records (user_id, food_item_id)",
		"CREATE UNIQUE INDEX follow_records_user_partner_key ON follow_records (user_id, food_partner_id)",
		"CREATE UNIQUE INDEX ratings_user_partner_key ON ratings (user_id, food_partner_id)",
		"CHECK (score BETWEEN 1 AND 5)",
		"CHECK (quantity > 0)",
		"ON DELETE CASCADE",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
