package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/simonsobs/mapcat/internal/domain"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
	}
	return db, cleanup
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func createTestMap(t *testing.T, db *DB, name string, ctime float64) *domain.DepthOneMap {
	t.Helper()
	m := &domain.DepthOneMap{
		MapName:   name,
		MapPath:   name + "_map.fits",
		IvarPath:  strPtr(name + "_ivar.fits"),
		TimePath:  strPtr(name + "_time.fits"),
		TubeSlot:  "i1",
		Frequency: "f090",
		CTime:     ctime,
		StartTime: ctime - 600,
		StopTime:  ctime + 600,
	}
	if err := db.CreateMap(context.Background(), m); err != nil {
		t.Fatalf("CreateMap failed: %v", err)
	}
	return m
}

func TestDB_Maps(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := createTestMap(t, db, "17577/depth1_1757723727_i1_f090", 1757723727)
	if m.MapID == 0 {
		t.Fatal("Expected map ID to be set")
	}

	fetched, err := db.GetMap(ctx, m.MapID)
	if err != nil {
		t.Fatalf("GetMap failed: %v", err)
	}
	if fetched.MapName != m.MapName {
		t.Errorf("Expected name %s, got %s", m.MapName, fetched.MapName)
	}
	if fetched.TimePath == nil || *fetched.TimePath != *m.TimePath {
		t.Errorf("Expected time path %s, got %v", *m.TimePath, fetched.TimePath)
	}

	byName, err := db.GetMapByName(ctx, m.MapName)
	if err != nil {
		t.Fatalf("GetMapByName failed: %v", err)
	}
	if byName.MapID != m.MapID {
		t.Errorf("Expected map ID %d, got %d", m.MapID, byName.MapID)
	}

	// Map names are unique
	dup := *m
	dup.MapID = 0
	if err := db.CreateMap(ctx, &dup); err == nil {
		t.Error("Expected duplicate map name to fail")
	}

	list, err := db.ListMaps(ctx, 10)
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 map, got %d", len(list))
	}

	if _, err := db.GetMap(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := db.DeleteMap(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDB_MapsWithoutCoverage(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	covered := createTestMap(t, db, "depth1_a", 1)
	bare := createTestMap(t, db, "depth1_b", 2)

	err := db.SaveCoverage(ctx, []domain.CoverageRecord{
		{MapID: covered.MapID, X: 3, Y: 5},
		{MapID: covered.MapID, X: 4, Y: 5},
	})
	if err != nil {
		t.Fatalf("SaveCoverage failed: %v", err)
	}

	pending, err := db.ListMapsWithoutCoverage(ctx)
	if err != nil {
		t.Fatalf("ListMapsWithoutCoverage failed: %v", err)
	}
	if len(pending) != 1 || pending[0].MapID != bare.MapID {
		t.Fatalf("Expected only map %d pending, got %+v", bare.MapID, pending)
	}
	if pending[0].TimePath == nil || *pending[0].TimePath != "depth1_b_time.fits" {
		t.Errorf("Expected time path on summary, got %v", pending[0].TimePath)
	}

	records, err := db.ListCoverage(ctx, covered.MapID)
	if err != nil {
		t.Fatalf("ListCoverage failed: %v", err)
	}
	if len(records) != 2 || records[0].X != 3 || records[1].X != 4 {
		t.Errorf("Unexpected coverage %+v", records)
	}

	inTile, err := db.ListMapsInTile(ctx, 4, 5)
	if err != nil {
		t.Fatalf("ListMapsInTile failed: %v", err)
	}
	if len(inTile) != 1 || inTile[0].MapID != covered.MapID {
		t.Errorf("Expected map %d in tile (4,5), got %+v", covered.MapID, inTile)
	}
}

func TestDB_SaveCoverageIsAtomic(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := createTestMap(t, db, "depth1_atomic", 1)

	err := db.SaveCoverage(ctx, []domain.CoverageRecord{
		{MapID: m.MapID, X: 1, Y: 1},
		{MapID: m.MapID, X: 1, Y: 2},
		{MapID: m.MapID, X: 1, Y: 1}, // duplicate key
	})
	if err == nil {
		t.Fatal("Expected duplicate coverage row to fail")
	}

	n, err := db.CountCoverage(ctx, m.MapID)
	if err != nil {
		t.Fatalf("CountCoverage failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rollback to leave 0 rows, got %d", n)
	}
}

func TestDB_RunInTxRollback(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.RunInTx(ctx, func(tx *DB) error {
		m := &domain.DepthOneMap{MapName: "rolled_back", MapPath: "x", TubeSlot: "i1", Frequency: "f150"}
		if err := tx.CreateMap(ctx, m); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	if _, err := db.GetMapByName(ctx, "rolled_back"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected rolled back map to be absent, got %v", err)
	}
}

func TestDB_DeleteMapCascades(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := createTestMap(t, db, "depth1_cascade", 1)
	keep := createTestMap(t, db, "depth1_keep", 2)

	var records []domain.CoverageRecord
	for x := 0; x < 4; x++ {
		records = append(records, domain.CoverageRecord{MapID: m.MapID, X: x, Y: 9})
	}
	if err := db.SaveCoverage(ctx, records); err != nil {
		t.Fatalf("SaveCoverage failed: %v", err)
	}
	if err := db.SaveCoverage(ctx, []domain.CoverageRecord{{MapID: keep.MapID, X: 0, Y: 9}}); err != nil {
		t.Fatalf("SaveCoverage failed: %v", err)
	}
	if err := db.CreateProcessingStatus(ctx, &domain.ProcessingStatus{MapID: m.MapID, Status: domain.StatusCompleted}); err != nil {
		t.Fatalf("CreateProcessingStatus failed: %v", err)
	}
	if err := db.CreatePointingResidual(ctx, &domain.PointingResidual{MapID: m.MapID, RAOffset: f64Ptr(1e-5)}); err != nil {
		t.Fatalf("CreatePointingResidual failed: %v", err)
	}
	if err := db.CreatePipelineInformation(ctx, &domain.PipelineInformation{MapID: m.MapID, MapMaker: strPtr("ml")}); err != nil {
		t.Fatalf("CreatePipelineInformation failed: %v", err)
	}

	if err := db.DeleteMap(ctx, m.MapID); err != nil {
		t.Fatalf("DeleteMap failed: %v", err)
	}

	n, _ := db.CountCoverage(ctx, m.MapID)
	if n != 0 {
		t.Errorf("Expected coverage to cascade, %d rows remain", n)
	}
	total, _ := db.CountAllCoverage(ctx)
	if total != 1 {
		t.Errorf("Expected only the other map's row to remain, got %d", total)
	}
	statuses, _ := db.ListProcessingStatuses(ctx, m.MapID)
	if len(statuses) != 0 {
		t.Errorf("Expected processing statuses to cascade, got %d", len(statuses))
	}
	residuals, _ := db.ListPointingResiduals(ctx, m.MapID)
	if len(residuals) != 0 {
		t.Errorf("Expected pointing residuals to cascade, got %d", len(residuals))
	}
	info, _ := db.ListPipelineInformation(ctx, m.MapID)
	if len(info) != 0 {
		t.Errorf("Expected pipeline information to cascade, got %d", len(info))
	}
}

func TestDB_PipelineInformation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := createTestMap(t, db, "depth1_pipeline", 1)

	good := &domain.PipelineInformation{
		MapID:           m.MapID,
		SotodlibVersion: strPtr("0.6.3"),
		MapMaker:        strPtr("ml"),
		PreprocessInfo:  strPtr(`{"glitch_cut": true, "hwp": "demod"}`),
	}
	if err := db.CreatePipelineInformation(ctx, good); err != nil {
		t.Fatalf("CreatePipelineInformation failed: %v", err)
	}
	if good.ID == 0 {
		t.Error("Expected an id to be assigned")
	}

	bad := &domain.PipelineInformation{MapID: m.MapID, PreprocessInfo: strPtr("{not json")}
	if err := db.CreatePipelineInformation(ctx, bad); err == nil {
		t.Error("Expected invalid JSON to be rejected")
	}

	got, err := db.ListPipelineInformation(ctx, m.MapID)
	if err != nil {
		t.Fatalf("ListPipelineInformation failed: %v", err)
	}
	if len(got) != 1 || got[0].MapMaker == nil || *got[0].MapMaker != "ml" {
		t.Errorf("Unexpected pipeline information %+v", got)
	}
}

func TestDB_FindProcessingStatuses(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 4; i++ {
		m := createTestMap(t, db, fmt.Sprintf("depth1_%d", i), 1755000000+float64(i)*1000)
		status := domain.StatusRunning
		if i%2 == 1 {
			status = domain.StatusFailed
		}
		ps := &domain.ProcessingStatus{MapID: m.MapID, Status: status, ProcessingStart: f64Ptr(m.CTime)}
		if err := db.CreateProcessingStatus(ctx, ps); err != nil {
			t.Fatalf("CreateProcessingStatus failed: %v", err)
		}
		ids = append(ids, m.MapID)
	}

	tests := []struct {
		name   string
		filter domain.ResetFilter
		want   int
	}{
		{"all", domain.ResetFilter{}, 4},
		{"by map", domain.ResetFilter{MapIDs: ids[:2]}, 2},
		{"by status", domain.ResetFilter{FromStatus: domain.StatusFailed}, 2},
		{"by start", domain.ResetFilter{StartTime: f64Ptr(1755002000)}, 2},
		{"by window", domain.ResetFilter{StartTime: f64Ptr(1755001000), EndTime: f64Ptr(1755002000)}, 2},
		{"combined", domain.ResetFilter{MapIDs: ids[1:], FromStatus: domain.StatusRunning, EndTime: f64Ptr(1755002500)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FindProcessingStatuses(ctx, tt.filter)
			if err != nil {
				t.Fatalf("FindProcessingStatuses failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestDB_SetAndDeleteProcessingStatuses(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	m := createTestMap(t, db, "depth1_status", 1)
	a := &domain.ProcessingStatus{MapID: m.MapID, Status: domain.StatusRunning}
	b := &domain.ProcessingStatus{MapID: m.MapID, Status: domain.StatusRunning}
	for _, ps := range []*domain.ProcessingStatus{a, b} {
		if err := db.CreateProcessingStatus(ctx, ps); err != nil {
			t.Fatalf("CreateProcessingStatus failed: %v", err)
		}
	}

	n, err := db.SetProcessingStatus(ctx, []int64{a.ID}, domain.StatusPermafail)
	if err != nil {
		t.Fatalf("SetProcessingStatus failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 updated row, got %d", n)
	}
	got, _ := db.ListProcessingStatuses(ctx, m.MapID)
	if len(got) != 2 || got[0].Status != domain.StatusPermafail || got[1].Status != domain.StatusRunning {
		t.Errorf("Expected only entry %d to become permafail, got %+v", a.ID, got)
	}

	n, err = db.DeleteProcessingStatuses(ctx, []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("DeleteProcessingStatuses failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", n)
	}
}
