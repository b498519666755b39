package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
	"github.com/mzkki25/ai-video-automation/config"
	"github.com/mzkki25/ai-video-automation/domain"
)

type dynamoWorkflowItem struct {
	WorkflowID string `dynamodbav:"workflow_id"`
	Snapshot   string `dynamodbav:"snapshot"`
	TTL        int64  `dynamodbav:"ttl"`
}

type dynamoWorkflowStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

// NewDynamoWorkflowStore persists run snapshots in DynamoDB, one item per
// run, expired by the table's TTL attribute. Every Put rewrites the whole
// snapshot and pushes the expiry forward.
func NewDynamoWorkflowStore(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.WorkflowStorePort {
	return &dynamoWorkflowStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (s *dynamoWorkflowStore) Put(ctx context.Context, workflowID string, snapshot domain.WorkflowSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	item := dynamoWorkflowItem{
		WorkflowID: workflowID,
		Snapshot:   string(payload),
		TTL:        time.Now().Add(time.Duration(s.dynamoConfig.TtlHours) * time.Hour).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal workflow item", map[string]interface{}{
			"workflow_id": workflowID,
		})
		return err
	}

	_, err = s.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.TableName),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save workflow item", map[string]interface{}{
			"workflow_id": workflowID,
		})
		return err
	}

	return nil
}

func (s *dynamoWorkflowStore) Get(ctx context.Context, workflowID string) (domain.WorkflowSnapshot, bool, error) {
	out, err := s.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"workflow_id": {S: aws.String(workflowID)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to load workflow item", map[string]interface{}{
			"workflow_id": workflowID,
		})
		return domain.WorkflowSnapshot{}, false, err
	}
	if out.Item == nil {
		return domain.WorkflowSnapshot{}, false, nil
	}

	var item dynamoWorkflowItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return domain.WorkflowSnapshot{}, false, err
	}
	// DynamoDB deletes expired items lazily; treat a stale item as gone.
	if item.TTL != 0 && item.TTL < time.Now().Unix() {
		return domain.WorkflowSnapshot{}, false, nil
	}

	var snapshot domain.WorkflowSnapshot
	if err := json.Unmarshal([]byte(item.Snapshot), &snapshot); err != nil {
		return domain.WorkflowSnapshot{}, false, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return snapshot, true, nil
}

func (s *dynamoWorkflowStore) Delete(ctx context.Context, workflowID string) error {
	_, err := s.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"workflow_id": {S: aws.String(workflowID)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to delete workflow item", map[string]interface{}{
			"workflow_id": workflowID,
		})
	}
	return err
}
