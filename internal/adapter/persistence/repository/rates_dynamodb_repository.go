package repository

import (
	"context"
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const globalRatesID = "global"

type rateSettingsItem struct {
	ID string `dynamodbav:"id"`
	rateItem
	UpdatedAt string `dynamodbav:"updated_at"`
}

// RatesDynamoRepository keeps the single global rate row.
//
// Table requirements:
//   - PK: id (string); the row id is "global"
//
// Until a row is saved, Current returns the configured defaults.
type RatesDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	defaults  entities.RateSnapshot
	now       func() time.Time
}

var _ interfaces.IRateStore = (*RatesDynamoRepository)(nil)

func NewRatesDynamoRepository(ddb DynamoAPI, tableName string, defaults entities.RateSnapshot) *RatesDynamoRepository {
	return &RatesDynamoRepository{ddb: ddb, tableName: tableName, defaults: defaults, now: time.Now}
}

func (r *RatesDynamoRepository) Current(ctx context.Context) (entities.RateSnapshot, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: globalRatesID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.RateSnapshot{}, storageError("get rates", err)
	}
	if len(out.Item) == 0 {
		return r.defaults, nil
	}

	var it rateSettingsItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.RateSnapshot{}, storageError("unmarshal rates", err)
	}
	var d decoder
	rates := d.rates(it.rateItem)
	return rates, d.err
}

func (r *RatesDynamoRepository) Save(ctx context.Context, rates entities.RateSnapshot) error {
	av, err := attributevalue.MarshalMap(rateSettingsItem{
		ID:        globalRatesID,
		rateItem:  toRateItem(rates),
		UpdatedAt: formatTime(r.now()),
	})
	if err != nil {
		return storageError("marshal rates", err)
	}
	if _, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return storageError("save rates", err)
	}
	return nil
}
