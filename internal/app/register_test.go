package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonsobs/mapcat/internal/logger"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterService_FindFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "17577", "depth1_1757723727_map.fits"))
	touch(t, filepath.Join(root, "17577", "depth1_1757723727_time.fits"))

	svc := NewRegisterService(nil, root, logger.New(logger.Config{Output: io.Discard}))

	for _, base := range []string{"17577/depth1_1757723727", "17577/depth1_1757723727_map.fits"} {
		files, err := svc.FindFiles(base)
		if err != nil {
			t.Fatalf("FindFiles(%q) failed: %v", base, err)
		}
		if files.Name != "depth1_1757723727" {
			t.Errorf("Name = %q", files.Name)
		}
		if files.MapPath != "17577/depth1_1757723727_map.fits" {
			t.Errorf("MapPath = %q", files.MapPath)
		}
		if files.IvarPath != nil {
			t.Errorf("Expected no ivar path, got %q", *files.IvarPath)
		}
		if files.TimePath == nil || *files.TimePath != "17577/depth1_1757723727_time.fits" {
			t.Errorf("Unexpected time path %v", files.TimePath)
		}
	}

	if _, err := svc.FindFiles("17577/depth1_missing"); err == nil {
		t.Error("Expected an error when the intensity map is missing")
	}
}

func TestRegisterService_Register(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	root := t.TempDir()
	touch(t, filepath.Join(root, "depth1_100_map.fits"))
	touch(t, filepath.Join(root, "depth1_100_ivar.fits"))
	touch(t, filepath.Join(root, "depth1_100_time.fits"))

	svc := NewRegisterService(db, root, logger.New(logger.Config{Output: io.Discard}))
	meta := Metadata{TubeSlot: "pa5", Frequency: "f090", CTime: 100, StartTime: 90, StopTime: 110}

	m, err := svc.Register(ctx, "depth1_100", meta)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if m.MapID == 0 || m.IvarPath == nil || m.TimePath == nil {
		t.Errorf("Unexpected map %+v", m)
	}

	pending, _ := db.ListMapsWithoutCoverage(ctx)
	if len(pending) != 1 || pending[0].MapID != m.MapID {
		t.Errorf("Expected the new map to be pending coverage, got %+v", pending)
	}

	if _, err := svc.Register(ctx, "depth1_100", meta); err == nil {
		t.Error("Expected duplicate map name to fail")
	}
	if _, err := svc.Register(ctx, "depth1_100", Metadata{Frequency: "f090"}); err == nil {
		t.Error("Expected missing tube slot to fail")
	}
	if _, err := svc.Register(ctx, "depth1_100", Metadata{TubeSlot: "pa5", Frequency: "f090", StartTime: 5, StopTime: 1}); err == nil {
		t.Error("Expected inverted time range to fail")
	}
}

func TestRegisterService_RegisterLinksTODs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	root := t.TempDir()
	touch(t, filepath.Join(root, "depth1_200_map.fits"))
	svc := NewRegisterService(db, root, logger.New(logger.Config{Output: io.Discard}))

	obs := []string{"obs_1753486724_lati6_111", "obs_1753586724_lati6_111"}
	meta := Metadata{TubeSlot: "i6", Frequency: "f150", CTime: 200, Telescope: "lat", ObsIDs: obs}
	m, err := svc.Register(ctx, "depth1_200", meta)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tods, err := db.ListTODsForMap(ctx, m.MapID)
	if err != nil {
		t.Fatalf("ListTODsForMap failed: %v", err)
	}
	if len(tods) != 2 {
		t.Fatalf("Expected 2 tods, got %d", len(tods))
	}
	if tods[0].ObsID != obs[0] || tods[0].CTime != 1753486724 || tods[0].Telescope != "lat" || tods[0].TubeSlot != "i6" {
		t.Errorf("Unexpected tod %+v", tods[0])
	}
}

func TestRegisterService_RegisterRejectsBadObs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	root := t.TempDir()
	touch(t, filepath.Join(root, "depth1_300_map.fits"))
	svc := NewRegisterService(db, root, logger.New(logger.Config{Output: io.Discard}))

	tests := []struct {
		name string
		meta Metadata
	}{
		{"malformed obs id", Metadata{TubeSlot: "i6", Frequency: "f150", Telescope: "lat", ObsIDs: []string{"tod_1753486724"}}},
		{"obs without telescope", Metadata{TubeSlot: "i6", Frequency: "f150", ObsIDs: []string{"obs_1753486724_lati6_111"}}},
		{"duplicate obs id", Metadata{TubeSlot: "i6", Frequency: "f150", Telescope: "lat",
			ObsIDs: []string{"obs_1753486724_lati6_111", "obs_1753486724_lati6_111"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, "depth1_300", tt.meta); err == nil {
				t.Fatal("Expected Register to fail")
			}
			// Nothing of a failed registration is kept.
			if _, err := db.GetMapByName(ctx, "depth1_300"); err == nil {
				t.Error("Expected no map after a failed registration")
			}
		})
	}
}
