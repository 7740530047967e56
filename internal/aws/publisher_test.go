package aws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type mockSQS struct {
	mu   sync.Mutex
	sent []*sqs.SendMessageInput
	fail error
}

func (m *mockSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.sent = append(m.sent, in)
	return &sqs.SendMessageOutput{MessageId: awsString("m-1")}, nil
}

type mockCloudWatch struct {
	calls []*cloudwatch.PutMetricDataInput
	fail  error
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	m.calls = append(m.calls, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPublisher_Send(t *testing.T) {
	q := &mockSQS{}
	p := NewPublisher(q, "https://sqs.local/alerts")

	err := p.Send(context.Background(), `{"title":"x"}`, map[string]string{"severity": "urgent", "item_id": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(q.sent))
	}
	in := q.sent[0]
	if *in.QueueUrl != "https://sqs.local/alerts" || *in.MessageBody != `{"title":"x"}` {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.MessageAttributes) != 1 || *in.MessageAttributes["severity"].StringValue != "urgent" {
		t.Fatalf("expected only the non-empty attribute, got %+v", in.MessageAttributes)
	}
}

func TestPublisher_SendErrors(t *testing.T) {
	if err := NewPublisher(&mockSQS{}, "").Send(context.Background(), "{}", nil); err == nil {
		t.Fatalf("expected error for missing queue url")
	}

	boom := errors.New("throttled")
	err := NewPublisher(&mockSQS{fail: boom}, "q").Send(context.Background(), "{}", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestMetricsPublisher_Publish(t *testing.T) {
	cw := &mockCloudWatch{}
	p := NewMetricsPublisher(cw, "Restaurant/Reports")
	p.Dimensions = map[string]string{"Period": "day"}
	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), ts, []Metric{
		{Name: "Revenue", Value: 120.5},
		{Name: "Orders", Value: 7, Unit: cwtypes.StandardUnitCount, Dimensions: map[string]string{"Service": "worker"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cw.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(cw.calls))
	}
	data := cw.calls[0].MetricData
	if *cw.calls[0].Namespace != "Restaurant/Reports" || len(data) != 2 {
		t.Fatalf("unexpected input: %+v", cw.calls[0])
	}
	if data[0].Unit != cwtypes.StandardUnitNone || data[1].Unit != cwtypes.StandardUnitCount {
		t.Fatalf("unexpected units: %s, %s", data[0].Unit, data[1].Unit)
	}
	if !data[0].Timestamp.Equal(ts) || len(data[0].Dimensions) != 1 || *data[0].Dimensions[0].Value != "day" {
		t.Fatalf("unexpected datum: %+v", data[0])
	}
	if len(data[1].Dimensions) != 2 || *data[1].Dimensions[0].Name != "Period" || *data[1].Dimensions[1].Name != "Service" {
		t.Fatalf("expected merged, sorted dimensions, got %+v", data[1].Dimensions)
	}
}

func TestMetricsPublisher_BatchesAndSkipsEmpty(t *testing.T) {
	cw := &mockCloudWatch{}
	p := NewMetricsPublisher(cw, "ns")

	if err := p.Publish(context.Background(), time.Now(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cw.calls) != 0 {
		t.Fatalf("expected no calls for empty metrics")
	}

	many := make([]Metric, maxDatumsPerCall+1)
	for i := range many {
		many[i] = Metric{Name: "m", Value: float64(i)}
	}
	if err := p.Publish(context.Background(), time.Now(), many); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cw.calls) != 2 || len(cw.calls[1].MetricData) != 1 {
		t.Fatalf("expected 2 batches, got %d", len(cw.calls))
	}
}
