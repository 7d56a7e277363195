package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Investment-Research-Backend/internal/testutil"
	"github.com/ndewijer/Investment-Research-Backend/internal/version"
)

// TestSystemService_CheckHealth tests the CheckHealth method.
//
// WHY: The health endpoint is used by container orchestration to decide whether the
// service is alive.
func TestSystemService_CheckHealth(t *testing.T) {
	t.Run("healthy database returns nil", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)

		if err := svc.CheckHealth(); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("closed database returns error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSystemService(t, db)
		db.Close()

		if err := svc.CheckHealth(); err == nil {
			t.Error("Expected error for closed database, got nil")
		}
	})
}

// TestSystemService_CheckVersion tests the CheckVersion method.
//
// WHY: Operators compare the app and schema versions to know whether migrations are pending.
func TestSystemService_CheckVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	info, err := svc.CheckVersion(context.Background())
	if err != nil {
		t.Fatalf("CheckVersion() returned unexpected error: %v", err)
	}

	if info.AppVersion != version.Version {
		t.Errorf("Expected app version %q, got %q", version.Version, info.AppVersion)
	}
	if info.DbVersion != "4" {
		t.Errorf("Expected db version 4, got %q", info.DbVersion)
	}
	if info.MigrationNeeded {
		t.Error("Expected no migration needed on a fully migrated database")
	}
	if info.MigrationMessage != nil {
		t.Errorf("Expected nil migration message, got %q", *info.MigrationMessage)
	}
	for _, feature := range []string{"memo_inbox", "investment_ledger", "analyst_stats", "watchlist", "memo_enrichment"} {
		if !info.Features[feature] {
			t.Errorf("Expected feature %s to be enabled", feature)
		}
	}
}
