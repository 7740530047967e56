package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// CloudWatch accepts at most this many datums per PutMetricData call.
const maxDatumsPerCall = 1000

// Metric is a single datum to publish.
type Metric struct {
	Name       string
	Value      float64
	Unit       cwtypes.StandardUnit
	Dimensions map[string]string
}

// MetricsPublisher writes datums to a CloudWatch namespace. Dimensions are added to every datum.
type MetricsPublisher struct {
	CW         CloudWatchAPI
	Namespace  string
	Dimensions map[string]string
}

// NewMetricsPublisher returns a MetricsPublisher for namespace.
func NewMetricsPublisher(cw CloudWatchAPI, namespace string) *MetricsPublisher {
	return &MetricsPublisher{CW: cw, Namespace: namespace}
}

// Publish sends metrics stamped with ts, batching as needed.
func (p *MetricsPublisher) Publish(ctx context.Context, ts time.Time, metrics []Metric) error {
	if len(metrics) == 0 {
		return nil
	}

	datums := make([]cwtypes.MetricDatum, 0, len(metrics))
	for _, m := range metrics {
		unit := m.Unit
		if unit == "" {
			unit = cwtypes.StandardUnitNone
		}
		datums = append(datums, cwtypes.MetricDatum{
			MetricName: sdkaws.String(m.Name),
			Value:      sdkaws.Float64(m.Value),
			Unit:       unit,
			Timestamp:  sdkaws.Time(ts),
			Dimensions: p.dimensions(m.Dimensions),
		})
	}

	for start := 0; start < len(datums); start += maxDatumsPerCall {
		end := min(start+maxDatumsPerCall, len(datums))
		_, err := p.CW.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  sdkaws.String(p.Namespace),
			MetricData: datums[start:end],
		})
		if err != nil {
			return fmt.Errorf("put metric data: %w", err)
		}
	}
	return nil
}

// dimensions merges the publisher's dimensions with a metric's own, the metric's winning.
// Names are sorted so datums are stable across calls.
func (p *MetricsPublisher) dimensions(own map[string]string) []cwtypes.Dimension {
	merged := make(map[string]string, len(p.Dimensions)+len(own))
	for k, v := range p.Dimensions {
		merged[k] = v
	}
	for k, v := range own {
		merged[k] = v
	}
	names := make([]string, 0, len(merged))
	for k := range merged {
		names = append(names, k)
	}
	sort.Strings(names)

	dims := make([]cwtypes.Dimension, 0, len(names))
	for _, k := range names {
		dims = append(dims, cwtypes.Dimension{Name: sdkaws.String(k), Value: sdkaws.String(merged[k])})
	}
	return dims
}
