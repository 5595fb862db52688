package repository

import (
	"context"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type auditEventItem struct {
	ID         string         `dynamodbav:"id"`
	EntityType string         `dynamodbav:"entity_type"`
	EntityID   string         `dynamodbav:"entity_id"`
	Action     string         `dynamodbav:"action"`
	Metadata   map[string]any `dynamodbav:"metadata,omitempty"`
	Timestamp  string         `dynamodbav:"timestamp"`
}

// AuditDynamoRepository appends audit events.
//
// Table requirements:
//   - PK: id (string)
type AuditDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IAuditSink = (*AuditDynamoRepository)(nil)

func NewAuditDynamoRepository(ddb DynamoAPI, tableName string) *AuditDynamoRepository {
	return &AuditDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *AuditDynamoRepository) Emit(ctx context.Context, e entities.AuditEvent) error {
	av, err := attributevalue.MarshalMap(auditEventItem{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Metadata:   e.Metadata,
		Timestamp:  formatTime(e.Timestamp),
	})
	if err != nil {
		return storageError("marshal audit event", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return storageError("emit audit event", err)
	}
	return nil
}
