package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func fixedNow() time.Time { return time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC) }

func TestBegin_Get_MarkDone(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "runs-table", 48*time.Hour)
	s.nowFunc = fixedNow

	ctx := context.Background()
	key := "daily-2026-10-19"

	created, err := s.Begin(ctx, key, "day", 1)
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}

	// second begin should return created=false (in progress)
	created2, err := s.Begin(ctx, key, "day", 2)
	if err != nil {
		t.Fatalf("second Begin error: %v", err)
	}
	if created2 {
		t.Fatalf("expected created=false on duplicate begin")
	}

	run, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if run == nil {
		t.Fatalf("expected run, got nil")
	}
	if run.Status != StatusInProgress || run.Period != "day" || run.Attempts != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.ExpiresAt != fixedNow().Add(48*time.Hour).Unix() {
		t.Fatalf("unexpected expiry %d", run.ExpiresAt)
	}

	if err := s.MarkDone(ctx, key, "report-1"); err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}
	item := mock.table[key]
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusDone {
		t.Fatalf("status not updated to DONE, got %+v", item["status"])
	}
	if rid, ok := item["report_id"].(*types.AttributeValueMemberS); !ok || rid.Value != "report-1" {
		t.Fatalf("report_id not set correctly: %+v", item["report_id"])
	}

	// a finished run can be neither finished again nor reclaimed
	if err := s.MarkDone(ctx, key, "report-2"); !errors.Is(err, ErrConditionFailed) {
		t.Fatalf("expected ErrConditionFailed, got %v", err)
	}
	if created, _ := s.Begin(ctx, key, "day", 3); created {
		t.Fatalf("expected DONE run to stay claimed")
	}
}

func TestMarkFailed_AllowsReclaim(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "runs-table", time.Hour)
	s.nowFunc = fixedNow
	ctx := context.Background()

	if _, err := s.Begin(ctx, "k", "week", 1); err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if err := s.MarkFailed(ctx, "k", "fetch orders: timeout"); err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
	item := mock.table["k"]
	if st := status(item); st != StatusFailed {
		t.Fatalf("status not updated to FAILED, got %s", st)
	}
	if n, ok := item["note"].(*types.AttributeValueMemberS); !ok || n.Value != "fetch orders: timeout" {
		t.Fatalf("note not set, got %+v", item["note"])
	}

	created, err := s.Begin(ctx, "k", "week", 2)
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !created {
		t.Fatalf("expected FAILED run to be reclaimable")
	}
}

func TestBegin_PropagatesOtherErrors(t *testing.T) {
	mock := newSimpleMock()
	mock.putErr = errors.New("provisioned throughput exceeded")
	s := NewStore(mock, "runs-table", time.Hour)

	created, err := s.Begin(context.Background(), "k", "day", 1)
	if err == nil || created {
		t.Fatalf("expected error, got created=%v err=%v", created, err)
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore(newSimpleMock(), "runs-table", time.Hour)
	run, err := s.Get(context.Background(), "nope")
	if err != nil || run != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", run, err)
	}
}

func TestRunMarshal_Unmarshal(t *testing.T) {
	rec := Run{
		RunKey:    "k1",
		Status:    StatusInProgress,
		Period:    "month",
		CreatedAt: fixedNow(),
		UpdatedAt: fixedNow(),
		ExpiresAt: fixedNow().Add(24 * time.Hour).Unix(),
	}
	m, err := attributevalue.MarshalMap(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, ok := m["report_id"]; ok {
		t.Fatalf("expected empty report_id to be omitted")
	}
	var out Run
	if err := attributevalue.UnmarshalMap(m, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.RunKey != rec.RunKey || !out.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("unmarshal mismatch: %+v", out)
	}
}
