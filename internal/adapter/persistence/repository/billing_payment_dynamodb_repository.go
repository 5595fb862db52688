package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	paymentsAssessmentIDIndex = "assessment_id-index"
	// settlementKeyPrefix marks the per-assessment settlement slot items. They
	// carry no assessment_id attribute, so the GSI never projects them.
	settlementKeyPrefix = "settlement#"
)

type billingPaymentItem struct {
	ID           string                 `dynamodbav:"id"`
	AssessmentID string                 `dynamodbav:"assessment_id"`
	Amount       string                 `dynamodbav:"amount"`
	Date         string                 `dynamodbav:"date"`
	Status       string                 `dynamodbav:"status"`
	MPPayload    map[string]interface{} `dynamodbav:"mp_payload,omitempty"`
	MPPayloadRaw string                 `dynamodbav:"mp_payload_raw,omitempty"`
}

// BillingPaymentDynamoRepository persists settlement payments in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: assessment_id-index (PK: assessment_id)
//
// The GSI is eventually consistent, so the one-settlement rule is enforced on
// the base table instead: a slot item keyed settlement#<assessment_id> is
// written with attribute_not_exists before any charge is attempted.
type BillingPaymentDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IBillingPaymentRepository = (*BillingPaymentDynamoRepository)(nil)

func NewBillingPaymentDynamoRepository(ddb DynamoAPI, tableName string) *BillingPaymentDynamoRepository {
	return &BillingPaymentDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *BillingPaymentDynamoRepository) Create(ctx context.Context, p entities.BillingPayment) (entities.BillingPayment, error) {
	av, err := attributevalue.MarshalMap(toBillingPaymentItem(p))
	if err != nil {
		return entities.BillingPayment{}, storageError("marshal payment", err)
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
		return entities.BillingPayment{}, storageError("create payment", err)
	}
	return p, nil
}

func (r *BillingPaymentDynamoRepository) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	if strings.HasPrefix(id, settlementKeyPrefix) {
		return entities.BillingPayment{}, nil
	}
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.BillingPayment{}, storageError("get payment", err)
	}
	if len(out.Item) == 0 {
		return entities.BillingPayment{}, nil
	}

	var it billingPaymentItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.BillingPayment{}, storageError("unmarshal payment", err)
	}
	return fromBillingPaymentItem(it)
}

// ListByAssessmentID reads the GSI, which is eventually consistent.
func (r *BillingPaymentDynamoRepository) ListByAssessmentID(ctx context.Context, assessmentID string) ([]entities.BillingPayment, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentsAssessmentIDIndex),
		KeyConditionExpression: aws.String("assessment_id = :aid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":aid": &types.AttributeValueMemberS{Value: assessmentID},
		},
	})
	if err != nil {
		return nil, storageError("list payments", err)
	}

	items := make([]entities.BillingPayment, 0, len(out.Items))
	for _, raw := range out.Items {
		var it billingPaymentItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, storageError("unmarshal payment", err)
		}
		p, err := fromBillingPaymentItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return items, nil
}

func (r *BillingPaymentDynamoRepository) ClaimSettlement(ctx context.Context, assessmentID, claimID string) error {
	_, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			"id":       &types.AttributeValueMemberS{Value: settlementKeyPrefix + assessmentID},
			"claim_id": &types.AttributeValueMemberS{Value: claimID},
		},
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return storageError("claim settlement", err)
	}
	return nil
}

// ReleaseSettlement deletes the slot only while claimID still holds it; a
// slot held by another claim is left alone.
func (r *BillingPaymentDynamoRepository) ReleaseSettlement(ctx context.Context, assessmentID, claimID string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: settlementKeyPrefix + assessmentID},
		},
		ConditionExpression:      aws.String("#claim = :claim"),
		ExpressionAttributeNames: map[string]string{"#claim": "claim_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":claim": &types.AttributeValueMemberS{Value: claimID},
		},
	})
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return nil
	}
	if err != nil {
		return storageError("release settlement", err)
	}
	return nil
}

func toBillingPaymentItem(p entities.BillingPayment) billingPaymentItem {
	return billingPaymentItem{
		ID:           p.ID,
		AssessmentID: p.AssessmentID,
		Amount:       p.Amount.String(),
		Date:         formatTime(p.Date),
		Status:       string(p.Status),
		MPPayload:    p.MPPayload,
		MPPayloadRaw: string(p.MPPayloadRaw),
	}
}

func fromBillingPaymentItem(it billingPaymentItem) (entities.BillingPayment, error) {
	var d decoder
	p := entities.BillingPayment{
		ID:           it.ID,
		AssessmentID: it.AssessmentID,
		Amount:       d.dec("amount", it.Amount),
		Date:         d.time("date", it.Date),
		Status:       entities.PaymentStatus(it.Status),
		MPPayload:    it.MPPayload,
	}
	if it.MPPayloadRaw != "" {
		p.MPPayloadRaw = []byte(it.MPPayloadRaw)
	}
	return p, d.err
}
