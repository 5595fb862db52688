package repository

import (
	"context"
	"fmt"
	"strconv"

	"repair_costing/internal/domain/entities"
	appconfig "repair_costing/internal/infrastructure/config"
	"repair_costing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AssessmentDynamoRepository persists assessments and their aggregates in
// DynamoDB, one table per aggregate.
//
// Table requirements:
//   - assessments: PK id (string)
//   - estimates, additionals, frc: PK assessment_id (string)
//
// Every aggregate carries a numeric version attribute. Writes are conditioned
// on the version the caller read and on the assessment stage, checked in the
// same TransactWriteItems call; stage changes go through one transaction so
// the stage and its aggregate land together.
type AssessmentDynamoRepository struct {
	ddb    DynamoAPI
	tables appconfig.TablesConfig
}

var _ interfaces.IAssessmentRepository = (*AssessmentDynamoRepository)(nil)

func NewAssessmentDynamoRepository(ddb DynamoAPI, tables appconfig.TablesConfig) *AssessmentDynamoRepository {
	return &AssessmentDynamoRepository{ddb: ddb, tables: tables}
}

func (r *AssessmentDynamoRepository) CreateAssessment(ctx context.Context, a entities.Assessment) (entities.Assessment, error) {
	a.Version = 1
	av, err := attributevalue.MarshalMap(toAssessmentItem(a))
	if err != nil {
		return entities.Assessment{}, storageError("marshal assessment", err)
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tables.Assessments),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Assessment{}, storageError("create assessment", err)
	}
	return a, nil
}

func (r *AssessmentDynamoRepository) LoadAssessment(ctx context.Context, id string) (entities.Assessment, error) {
	var it assessmentItem
	found, err := r.get(ctx, r.tables.Assessments, "id", id, &it)
	if err != nil || !found {
		return entities.Assessment{}, err
	}
	return fromAssessmentItem(it)
}

func (r *AssessmentDynamoRepository) LoadLedger(ctx context.Context, assessmentID string) (entities.EstimateLedger, error) {
	var it ledgerItem
	found, err := r.get(ctx, r.tables.Estimates, "assessment_id", assessmentID, &it)
	if err != nil || !found {
		return entities.EstimateLedger{}, err
	}
	return fromLedgerItem(it)
}

func (r *AssessmentDynamoRepository) SaveLedger(ctx context.Context, ledger entities.EstimateLedger, stage entities.Stage) (entities.EstimateLedger, error) {
	expected := ledger.Version
	ledger.Version++
	put, err := versionedPut(r.tables.Estimates, "assessment_id", toLedgerItem(ledger), expected)
	if err != nil {
		return entities.EstimateLedger{}, err
	}
	if err := r.stagedPut(ctx, ledger.AssessmentID, stage, put, "save estimate"); err != nil {
		return entities.EstimateLedger{}, err
	}
	return ledger, nil
}

func (r *AssessmentDynamoRepository) LoadOverlay(ctx context.Context, assessmentID string) (entities.AdditionalsOverlay, error) {
	var it overlayItem
	found, err := r.get(ctx, r.tables.Additionals, "assessment_id", assessmentID, &it)
	if err != nil || !found {
		return entities.AdditionalsOverlay{}, err
	}
	return fromOverlayItem(it)
}

func (r *AssessmentDynamoRepository) SaveOverlay(ctx context.Context, overlay entities.AdditionalsOverlay, stage entities.Stage) (entities.AdditionalsOverlay, error) {
	expected := overlay.Version
	overlay.Version++
	put, err := versionedPut(r.tables.Additionals, "assessment_id", toOverlayItem(overlay), expected)
	if err != nil {
		return entities.AdditionalsOverlay{}, err
	}
	if err := r.stagedPut(ctx, overlay.AssessmentID, stage, put, "save additionals"); err != nil {
		return entities.AdditionalsOverlay{}, err
	}
	return overlay, nil
}

func (r *AssessmentDynamoRepository) LoadSnapshot(ctx context.Context, assessmentID string) (entities.FRCSnapshot, error) {
	var it snapshotItem
	found, err := r.get(ctx, r.tables.FRC, "assessment_id", assessmentID, &it)
	if err != nil || !found {
		return entities.FRCSnapshot{}, err
	}
	return fromSnapshotItem(it)
}

func (r *AssessmentDynamoRepository) SaveSnapshot(ctx context.Context, snapshot entities.FRCSnapshot, stage entities.Stage) (entities.FRCSnapshot, error) {
	expected := snapshot.Version
	snapshot.Version++
	put, err := versionedPut(r.tables.FRC, "assessment_id", toSnapshotItem(snapshot), expected)
	if err != nil {
		return entities.FRCSnapshot{}, err
	}
	if err := r.stagedPut(ctx, snapshot.AssessmentID, stage, put, "save frc"); err != nil {
		return entities.FRCSnapshot{}, err
	}
	return snapshot, nil
}

// CASStage writes the new stage and any aggregate in one transaction. The
// assessment put is conditioned on both the expected stage and the version
// just read, so a concurrent transition cancels the whole transaction.
func (r *AssessmentDynamoRepository) CASStage(ctx context.Context, change interfaces.StageChange) (entities.Assessment, error) {
	current, err := r.LoadAssessment(ctx, change.AssessmentID)
	if err != nil {
		return entities.Assessment{}, err
	}
	if current.ID == "" {
		return entities.Assessment{}, fmt.Errorf("assessment %s: %w", change.AssessmentID, entities.ErrNotFound)
	}
	if current.Stage != change.Expected {
		return entities.Assessment{}, fmt.Errorf("%w: stage is %s, expected %s", entities.ErrConcurrentModification, current.Stage, change.Expected)
	}

	next := current
	next.Stage = change.Next
	next.Status = entities.StatusForStage(change.Next)
	if change.CancelReason != "" {
		next.CancelReason = change.CancelReason
	}
	next.Version++
	next.UpdatedAt = change.At

	assessmentPut, err := versionedPut(r.tables.Assessments, "id", toAssessmentItem(next), current.Version)
	if err != nil {
		return entities.Assessment{}, err
	}
	assessmentPut.ConditionExpression = aws.String(*assessmentPut.ConditionExpression + " AND #stage = :expected")
	assessmentPut.ExpressionAttributeNames = mergeNames(assessmentPut.ExpressionAttributeNames, map[string]string{"#stage": "stage"})
	if assessmentPut.ExpressionAttributeValues == nil {
		assessmentPut.ExpressionAttributeValues = map[string]types.AttributeValue{}
	}
	assessmentPut.ExpressionAttributeValues[":expected"] = &types.AttributeValueMemberS{Value: string(change.Expected)}

	items := []types.TransactWriteItem{{Put: assessmentPut}}
	if change.Ledger != nil {
		l := change.Ledger.Clone()
		l.AssessmentID = next.ID
		expected := l.Version
		l.Version++
		put, err := versionedPut(r.tables.Estimates, "assessment_id", toLedgerItem(l), expected)
		if err != nil {
			return entities.Assessment{}, err
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}
	if change.Snapshot != nil {
		s := change.Snapshot.Clone()
		s.AssessmentID = next.ID
		expected := s.Version
		s.Version++
		put, err := versionedPut(r.tables.FRC, "assessment_id", toSnapshotItem(s), expected)
		if err != nil {
			return entities.Assessment{}, err
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}

	if _, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return entities.Assessment{}, storageError("stage change", err)
	}
	return next, nil
}

func (r *AssessmentDynamoRepository) get(ctx context.Context, table, key, id string, out any) (bool, error) {
	res, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, storageError("get "+table, err)
	}
	if len(res.Item) == 0 {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(res.Item, out); err != nil {
		return false, storageError("unmarshal "+table, err)
	}
	return true, nil
}

// stagedPut applies p in one transaction with a check that the assessment is
// still at stage.
func (r *AssessmentDynamoRepository) stagedPut(ctx context.Context, assessmentID string, stage entities.Stage, p *types.Put, op string) error {
	check := &types.ConditionCheck{
		TableName: aws.String(r.tables.Assessments),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: assessmentID},
		},
		ConditionExpression:      aws.String("#stage = :stage"),
		ExpressionAttributeNames: map[string]string{"#stage": "stage"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stage": &types.AttributeValueMemberS{Value: string(stage)},
		},
	}
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{{ConditionCheck: check}, {Put: p}},
	})
	if err != nil {
		return storageError(op, err)
	}
	return nil
}

// versionedPut builds a put that only succeeds while the stored version is
// still expected. Version 0 means the item must not exist yet.
func versionedPut(table, key string, item any, expected int64) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, storageError("marshal "+table, err)
	}
	p := &types.Put{TableName: aws.String(table), Item: av}
	if expected == 0 {
		p.ConditionExpression = aws.String("attribute_not_exists(#pk)")
		p.ExpressionAttributeNames = map[string]string{"#pk": key}
		return p, nil
	}
	p.ConditionExpression = aws.String("#version = :version")
	p.ExpressionAttributeNames = map[string]string{"#version": "version"}
	p.ExpressionAttributeValues = map[string]types.AttributeValue{
		":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
	}
	return p, nil
}
