package services_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
)

func strPtr(s string) *string { return &s }

func flexFloat(v float64) *types.FlexFloat64 {
	f := types.FlexFloat64(v)
	return &f
}

func flexInt(v int) *types.FlexInt {
	f := types.FlexInt(v)
	return &f
}

// TestFilamentCreateDefaults tests creation with the minimum payload and the
// defaulted fields.
func TestFilamentCreateDefaults(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", false)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	filament, err := svc.Create(user, services.FilamentInput{
		Name:        strPtr("Galaxy Black PLA"),
		TotalWeight: flexFloat(1.0),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filament.UserID != user.ID {
		t.Errorf("Expected owner %d, got %d", user.ID, filament.UserID)
	}
	if filament.RemainingPercentage != 100 {
		t.Errorf("Expected default remaining 100, got %d", filament.RemainingPercentage)
	}
	if filament.Status != "sealed" || filament.SpoolType != "spooled" {
		t.Errorf("Unexpected defaults: %s/%s", filament.Status, filament.SpoolType)
	}
}

// TestFilamentCreateValidation tests the mandatory fields and invariants.
func TestFilamentCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", false)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	cases := []struct {
		name string
		in   services.FilamentInput
	}{
		{"missing name", services.FilamentInput{TotalWeight: flexFloat(1)}},
		{"blank name", services.FilamentInput{Name: strPtr("  "), TotalWeight: flexFloat(1)}},
		{"missing weight", services.FilamentInput{Name: strPtr("x")}},
		{"zero weight", services.FilamentInput{Name: strPtr("x"), TotalWeight: flexFloat(0)}},
		{"percentage over 100", services.FilamentInput{Name: strPtr("x"), TotalWeight: flexFloat(1), RemainingPercentage: flexInt(101)}},
		{"negative percentage", services.FilamentInput{Name: strPtr("x"), TotalWeight: flexFloat(1), RemainingPercentage: flexInt(-1)}},
		{"bad status", services.FilamentInput{Name: strPtr("x"), TotalWeight: flexFloat(1), Status: strPtr("wet")}},
		{"bad date", services.FilamentInput{Name: strPtr("x"), TotalWeight: flexFloat(1), PurchaseDate: strPtr("03/01/2026")}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(user, tc.in); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

// TestFilamentStringNumericCoercion tests that numeric fields arriving as
// JSON strings are accepted.
func TestFilamentStringNumericCoercion(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", false)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	var in services.FilamentInput
	payload := `{"name":"spool","totalWeight":"1.5","remainingPercentage":"85.0","diameter":"1.75"}`
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	filament, err := svc.Create(user, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filament.TotalWeight != 1.5 || filament.RemainingPercentage != 85 {
		t.Errorf("Unexpected coerced values: %v / %d", filament.TotalWeight, filament.RemainingPercentage)
	}
	if filament.Diameter == nil || *filament.Diameter != 1.75 {
		t.Errorf("Unexpected diameter: %v", filament.Diameter)
	}
}

// TestFilamentPatchSemantics tests that a patch touches only the supplied
// fields and an empty patch is a no-op.
func TestFilamentPatchSemantics(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", false)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	created, err := svc.Create(user, services.FilamentInput{
		Name:        strPtr("spool"),
		Material:    strPtr("PLA"),
		TotalWeight: flexFloat(1.0),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Empty patch changes nothing.
	unchanged, err := svc.Update(created.ID, user, services.FilamentInput{})
	if err != nil {
		t.Fatalf("Empty patch failed: %v", err)
	}
	if unchanged.Name != "spool" || unchanged.Material != "PLA" || unchanged.TotalWeight != 1.0 {
		t.Errorf("Empty patch modified the row: %+v", unchanged)
	}

	patched, err := svc.Update(created.ID, user, services.FilamentInput{
		RemainingPercentage: flexInt(40),
		Status:              strPtr("opened"),
	})
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if patched.RemainingPercentage != 40 || patched.Status != "opened" {
		t.Errorf("Patch not applied: %+v", patched)
	}
	if patched.Material != "PLA" {
		t.Errorf("Patch clobbered untouched field: %q", patched.Material)
	}
}

// TestFilamentOwnership tests that only the owner or an admin may modify or
// delete a spool.
func TestFilamentOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "alice", false)
	stranger := createTestUser(t, db, "bob", false)
	admin := createTestUser(t, db, "root", true)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	created, err := svc.Create(owner, services.FilamentInput{Name: strPtr("spool"), TotalWeight: flexFloat(1)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(created.ID, stranger, services.FilamentInput{Name: strPtr("stolen")}); err == nil {
		t.Error("Expected update by non-owner to be forbidden")
	}
	if err := svc.Delete(created.ID, stranger); err == nil {
		t.Error("Expected delete by non-owner to be forbidden")
	}

	if _, err := svc.Update(created.ID, admin, services.FilamentInput{Name: strPtr("renamed")}); err != nil {
		t.Errorf("Expected admin update to succeed: %v", err)
	}
	if err := svc.Delete(created.ID, admin); err != nil {
		t.Errorf("Expected admin delete to succeed: %v", err)
	}
}

// TestFilamentListScoping tests that List is owner-scoped unless an admin
// asks for everything.
func TestFilamentListScoping(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	admin := createTestUser(t, db, "root", true)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	if _, err := svc.Create(alice, services.FilamentInput{Name: strPtr("a"), TotalWeight: flexFloat(1)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(bob, services.FilamentInput{Name: strPtr("b"), TotalWeight: flexFloat(1)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mine, err := svc.List(alice, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "a" {
		t.Errorf("Expected only alice's spool, got %+v", mine)
	}

	// A non-admin asking for everything still gets only their own rows.
	scoped, err := svc.List(bob, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Name != "b" {
		t.Errorf("Expected scoping to hold for non-admins, got %+v", scoped)
	}

	everything, err := svc.List(admin, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(everything) != 2 {
		t.Errorf("Expected admin to see both spools, got %d", len(everything))
	}
}

// TestFilamentExportCSV tests the spreadsheet rendering and the id filter.
func TestFilamentExportCSV(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice", false)
	svc := &services.FilamentService{DB: db, Log: testLogger()}

	first, err := svc.Create(user, services.FilamentInput{
		Name: strPtr("first"), Material: strPtr("PLA"), TotalWeight: flexFloat(1),
		PurchaseDate: strPtr("2026-01-15"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(user, services.FilamentInput{Name: strPtr("second"), TotalWeight: flexFloat(1)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	filaments, err := svc.Export(user, []uint{first.ID})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(filaments) != 1 {
		t.Fatalf("Expected 1 exported filament, got %d", len(filaments))
	}

	out, err := services.ExportCSV(filaments)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "name,manufacturer,material") {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "2026-01-15") {
		t.Errorf("Expected bare date in row: %q", lines[1])
	}
}

// TestParseIDList tests the comma-separated id parameter parsing.
func TestParseIDList(t *testing.T) {
	ids, err := services.ParseIDList(" 1, 2,3 ,")
	if err != nil {
		t.Fatalf("ParseIDList failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("Unexpected ids: %v", ids)
	}

	if ids, err := services.ParseIDList(""); err != nil || ids != nil {
		t.Errorf("Expected empty input to parse to nil, got %v / %v", ids, err)
	}

	if _, err := services.ParseIDList("1,abc"); err == nil {
		t.Error("Expected error for non-numeric id")
	}
}
