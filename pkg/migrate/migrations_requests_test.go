package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRequestsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_service_requests.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no service requests migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS service_requests",
		"CHECK (status IN ('접수', '진행중', '완료', '취소'))",
		"FOREIGN KEY (request_id) REFERENCES service_requests(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_request_details_request_key",
		"DROP TABLE IF EXISTS request_details",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProfilesMigrationEnforcesUniquePhone(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_profiles.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no profiles migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS profiles",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_phone",
		"CHECK (role IN ('user', 'admin'))",
		"DROP TABLE IF EXISTS profiles",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
