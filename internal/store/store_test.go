package store

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"resumescore/internal/errors"
	"resumescore/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return s
}

func testReport(role string, score int) types.AnalysisReport {
	return types.AnalysisReport{
		ATSScore:        score,
		SkillsFound:     []string{"Go", "Docker"},
		SkillsMissing:   []string{"Kubernetes"},
		MatchPercentage: 67,
		JobRole:         role,
		Sections: types.SectionFlags{
			Summary:    true,
			Experience: true,
			Skills:     true,
		},
		FormattingQuality: 90,
		KeywordDensity:    40,
		AIFeedback:        "Good job including these relevant skills: Go, Docker",
		OverallScore:      score,
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	report := testReport("Backend Developer", 72)
	saved, err := s.Save(ctx, report, "resume.pdf", 420)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if saved.ID == "" {
		t.Error("Save returned empty id")
	}
	if saved.JobRole != "Backend Developer" {
		t.Errorf("JobRole = %q, want Backend Developer", saved.JobRole)
	}
	if saved.FileName != "resume.pdf" || saved.WordCount != 420 {
		t.Errorf("metadata = (%q, %d), want (resume.pdf, 420)", saved.FileName, saved.WordCount)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != saved.ID {
		t.Errorf("Get returned id %q, want %q", got.ID, saved.ID)
	}
	if !reflect.DeepEqual(got.Report, report) {
		t.Errorf("round-tripped report differs:\ngot:  %+v\nwant: %+v", got.Report, report)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeNotFound)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		saved, err := s.Save(ctx, testReport("Backend Developer", 50+i), "", 100)
		if err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
		ids = append(ids, saved.ID)
		// Distinct timestamps so the ordering is unambiguous.
		time.Sleep(5 * time.Millisecond)
	}

	records, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(records))
	}
	for i, record := range records {
		want := ids[len(ids)-1-i]
		if record.ID != want {
			t.Errorf("records[%d].ID = %q, want %q (newest first)", i, record.ID, want)
		}
	}

	limited, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Recent(2) returned %d records, want 2", len(limited))
	}
	if limited[0].ID != ids[2] {
		t.Errorf("Recent(2) first id = %q, want newest %q", limited[0].ID, ids[2])
	}
}

func TestRecentEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if records == nil {
		t.Error("Recent returned nil slice for empty store")
	}
	if len(records) != 0 {
		t.Errorf("Recent returned %d records, want 0", len(records))
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count = %d, want 0", count)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.Save(ctx, testReport("Data Scientist", 60), "", 100); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	count, err = s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() {
		_ = s.Close()
	}()

	if _, err := s.Count(context.Background()); err != nil {
		t.Errorf("Count on fresh database failed: %v", err)
	}
}
