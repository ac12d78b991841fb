package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
)

// CloudWatchAPI is the subset of the CloudWatch client the reporter uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchReporter pushes one data point per scheduled job run.
type CloudWatchReporter struct {
	client    CloudWatchAPI
	namespace string
	local     *Metrics
	logger    *zap.Logger
	now       func() time.Time
}

var _ ports.MetricsReporter = (*CloudWatchReporter)(nil)

// NewCloudWatchReporter creates a reporter. A nil client only feeds the
// local Prometheus counters; local may be nil as well.
func NewCloudWatchReporter(client CloudWatchAPI, namespace string, local *Metrics, logger *zap.Logger) *CloudWatchReporter {
	return &CloudWatchReporter{
		client:    client,
		namespace: namespace,
		local:     local,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordPick publishes PickSelected (1 or 0) with dimension Kind
func (r *CloudWatchReporter) RecordPick(ctx context.Context, kind entities.PickKind, selected bool) error {
	if r.local != nil {
		r.local.ObservePick(kind, selected)
	}
	if r.client == nil {
		return nil
	}

	value := 0.0
	if selected {
		value = 1
	}

	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("PickSelected"),
				Dimensions: []types.Dimension{
					{Name: aws.String("Kind"), Value: aws.String(string(kind))},
				},
				Value:     aws.Float64(value),
				Unit:      types.StandardUnitCount,
				Timestamp: aws.Time(r.now()),
			},
		},
	})
	if err != nil {
		r.logger.Warn("Failed to send metrics", zap.String("kind", string(kind)), zap.Error(err))
		return fmt.Errorf("failed to put metric data: %w", err)
	}
	return nil
}
