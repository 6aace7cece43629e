package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/store"
)

func setupTestDB(t *testing.T) (*store.DB, func()) {
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test_app.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		db.Close()
	}
	return db, cleanup
}

func f64Ptr(f float64) *float64 { return &f }

// seed creates three maps at ctime 100, 200, 300 with one processing entry
// each, in statuses running, failed, completed.
func seed(t *testing.T, db *store.DB) []int64 {
	t.Helper()
	ctx := context.Background()
	statuses := []domain.ProcessingStatusValue{domain.StatusRunning, domain.StatusFailed, domain.StatusCompleted}

	var mapIDs []int64
	for i, st := range statuses {
		m := &domain.DepthOneMap{
			MapName:   "depth1_" + string(st),
			MapPath:   "depth1_" + string(st) + "_map.fits",
			TubeSlot:  "i1",
			Frequency: "f090",
			CTime:     float64(100 * (i + 1)),
		}
		if err := db.CreateMap(ctx, m); err != nil {
			t.Fatalf("CreateMap failed: %v", err)
		}
		if err := db.CreateProcessingStatus(ctx, &domain.ProcessingStatus{MapID: m.MapID, Status: st}); err != nil {
			t.Fatalf("CreateProcessingStatus failed: %v", err)
		}
		mapIDs = append(mapIDs, m.MapID)
	}
	return mapIDs
}

func statusOf(t *testing.T, db *store.DB, mapID int64) []domain.ProcessingStatusValue {
	t.Helper()
	entries, err := db.ListProcessingStatuses(context.Background(), mapID)
	if err != nil {
		t.Fatalf("ListProcessingStatuses failed: %v", err)
	}
	var out []domain.ProcessingStatusValue
	for _, e := range entries {
		out = append(out, e.Status)
	}
	return out
}

func TestResetService_SetStatus(t *testing.T) {
	tests := []struct {
		name      string
		filter    func(ids []int64) domain.ResetFilter
		status    domain.ProcessingStatusValue
		wantCount int
		wantAfter []domain.ProcessingStatusValue
	}{
		{
			name:      "everything",
			filter:    func([]int64) domain.ResetFilter { return domain.ResetFilter{} },
			status:    domain.StatusFailed,
			wantCount: 3,
			wantAfter: []domain.ProcessingStatusValue{domain.StatusFailed, domain.StatusFailed, domain.StatusFailed},
		},
		{
			name:      "by map id",
			filter:    func(ids []int64) domain.ResetFilter { return domain.ResetFilter{MapIDs: ids[:1]} },
			status:    domain.StatusPermafail,
			wantCount: 1,
			wantAfter: []domain.ProcessingStatusValue{domain.StatusPermafail, domain.StatusFailed, domain.StatusCompleted},
		},
		{
			name: "ctime range is inclusive",
			filter: func([]int64) domain.ResetFilter {
				return domain.ResetFilter{StartTime: f64Ptr(200), EndTime: f64Ptr(300)}
			},
			status:    domain.StatusCompleted,
			wantCount: 2,
			wantAfter: []domain.ProcessingStatusValue{domain.StatusRunning, domain.StatusCompleted, domain.StatusCompleted},
		},
		{
			name:      "from status",
			filter:    func([]int64) domain.ResetFilter { return domain.ResetFilter{FromStatus: domain.StatusRunning} },
			status:    domain.StatusFailed,
			wantCount: 1,
			wantAfter: []domain.ProcessingStatusValue{domain.StatusFailed, domain.StatusFailed, domain.StatusCompleted},
		},
		{
			name:      "no match",
			filter:    func([]int64) domain.ResetFilter { return domain.ResetFilter{FromStatus: domain.StatusPermafail} },
			status:    domain.StatusFailed,
			wantCount: 0,
			wantAfter: []domain.ProcessingStatusValue{domain.StatusRunning, domain.StatusFailed, domain.StatusCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			ids := seed(t, db)
			svc := NewResetService(db, logger.New(logger.Config{Output: io.Discard}))

			n, err := svc.Reset(context.Background(), tt.filter(ids), tt.status)
			if err != nil {
				t.Fatalf("Reset failed: %v", err)
			}
			if n != tt.wantCount {
				t.Errorf("Reset touched %d entries, want %d", n, tt.wantCount)
			}
			for i, id := range ids {
				got := statusOf(t, db, id)
				if len(got) != 1 || got[0] != tt.wantAfter[i] {
					t.Errorf("Map %d status = %v, want %s", id, got, tt.wantAfter[i])
				}
			}
		})
	}
}

func TestResetService_Delete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ids := seed(t, db)
	svc := NewResetService(db, logger.New(logger.Config{Output: io.Discard}))

	n, err := svc.Reset(context.Background(), domain.ResetFilter{FromStatus: domain.StatusFailed}, "")
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 deleted entry, got %d", n)
	}
	if got := statusOf(t, db, ids[1]); len(got) != 0 {
		t.Errorf("Expected the failed entry to be deleted, got %v", got)
	}
	if got := statusOf(t, db, ids[0]); len(got) != 1 {
		t.Errorf("Expected other entries to remain, got %v", got)
	}
}

func TestResetService_Rejects(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ids := seed(t, db)
	svc := NewResetService(db, logger.New(logger.Config{Output: io.Discard}))
	ctx := context.Background()

	if _, err := svc.Reset(ctx, domain.ResetFilter{}, "running"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus for running, got %v", err)
	}
	if _, err := svc.Reset(ctx, domain.ResetFilter{}, "done"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus for done, got %v", err)
	}
	if _, err := svc.Reset(ctx, domain.ResetFilter{StartTime: f64Ptr(300), EndTime: f64Ptr(100)}, domain.StatusFailed); err == nil {
		t.Error("Expected inverted time range to be rejected")
	}

	if got := statusOf(t, db, ids[0]); len(got) != 1 || got[0] != domain.StatusRunning {
		t.Errorf("Expected rejected resets to leave entries alone, got %v", got)
	}
}
