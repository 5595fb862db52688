package repository

import (
	"context"
	"errors"
	"testing"

	"repair_costing/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingPaymentDynamoRepository_SettlementSlot(t *testing.T) {
	t.Run("claim is a conditional put on the base table", func(t *testing.T) {
		ddb := newFakeDynamo()
		repo := NewBillingPaymentDynamoRepository(ddb, "billing_payments")

		require.NoError(t, repo.ClaimSettlement(context.Background(), "as-1", "claim-1"))
		require.Len(t, ddb.puts, 1)
		put := ddb.puts[0]
		assert.Equal(t, "billing_payments", aws.ToString(put.TableName))
		assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(put.ConditionExpression))
		assert.Equal(t, &types.AttributeValueMemberS{Value: "settlement#as-1"}, put.Item["id"])
		assert.Equal(t, &types.AttributeValueMemberS{Value: "claim-1"}, put.Item["claim_id"])
		_, indexed := put.Item["assessment_id"]
		assert.False(t, indexed, "slot items stay out of the assessment index")

		got, err := repo.GetByID(context.Background(), "settlement#as-1")
		require.NoError(t, err)
		assert.Empty(t, got.ID)
	})

	t.Run("slot already held", func(t *testing.T) {
		ddb := newFakeDynamo()
		ddb.putErr = &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		repo := NewBillingPaymentDynamoRepository(ddb, "billing_payments")

		err := repo.ClaimSettlement(context.Background(), "as-1", "claim-2")
		assert.True(t, errors.Is(err, entities.ErrConcurrentModification))
	})

	t.Run("release only frees its own claim", func(t *testing.T) {
		ddb := newFakeDynamo()
		repo := NewBillingPaymentDynamoRepository(ddb, "billing_payments")
		require.NoError(t, repo.ClaimSettlement(context.Background(), "as-1", "claim-1"))

		require.NoError(t, repo.ReleaseSettlement(context.Background(), "as-1", "claim-1"))
		require.Len(t, ddb.deletes, 1)
		del := ddb.deletes[0]
		assert.Equal(t, "#claim = :claim", aws.ToString(del.ConditionExpression))
		assert.Equal(t, &types.AttributeValueMemberS{Value: "claim-1"}, del.ExpressionAttributeValues[":claim"])
		assert.Empty(t, ddb.items["billing_payments"])

		ddb.deleteErr = &types.ConditionalCheckFailedException{Message: aws.String("held by another claim")}
		assert.NoError(t, repo.ReleaseSettlement(context.Background(), "as-1", "stale"))

		ddb.deleteErr = errors.New("throttled")
		err := repo.ReleaseSettlement(context.Background(), "as-1", "claim-1")
		assert.True(t, errors.Is(err, entities.ErrPersistence))
	})
}
