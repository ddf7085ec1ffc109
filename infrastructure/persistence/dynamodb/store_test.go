package dynamodb

import (
	"fmt"
	"testing"

	"sol-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "TABLE#messages#jane@example.com", PartitionKey(ports.TableMessages, "jane@example.com"))
	assert.Equal(t, "profiles#p-1", IDKey(ports.TableProfiles, "p-1"))
}

func TestSplitOwnerFilter(t *testing.T) {
	filters := []ports.Filter{
		{Field: "created_at", Op: ports.OpGt, Value: "2024"},
		{Field: "user_email", Op: ports.OpEq, Value: "jane@example.com"},
	}

	owner, rest := splitOwnerFilter("user_email", filters)
	assert.Equal(t, "jane@example.com", owner)
	require.Len(t, rest, 1)
	assert.Equal(t, "created_at", rest[0].Field)

	owner, rest = splitOwnerFilter("user_email", filters[:1])
	assert.Empty(t, owner)
	assert.Len(t, rest, 1)
}

func TestFromItem_DropsKeyAttributes(t *testing.T) {
	rec, err := FromItem(map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: "TABLE#insights#jane@example.com"},
		"SK":     &types.AttributeValueMemberS{Value: "i-1"},
		"GSI1PK": &types.AttributeValueMemberS{Value: "insights#i-1"},
		"id":     &types.AttributeValueMemberS{Value: "i-1"},
		"note":   &types.AttributeValueMemberS{Value: "Prefers mornings"},
	})
	require.NoError(t, err)
	assert.Equal(t, ports.Record{"id": "i-1", "note": "Prefers mornings"}, rec)
}

func TestFilterCondition(t *testing.T) {
	_, ok := filterCondition(nil)
	assert.False(t, ok)

	cond, ok := filterCondition([]ports.Filter{
		{Field: "source", Op: ports.OpEq, Value: "chat"},
		{Field: "created_at", Op: ports.OpGte, Value: "2024"},
	})
	require.True(t, ok)
	assert.True(t, cond.IsSet())
}

func TestAWSCode(t *testing.T) {
	throttled := &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}

	assert.Equal(t, " (ProvisionedThroughputExceededException)", awsCode(fmt.Errorf("query: %w", throttled)))
	assert.Equal(t, "", awsCode(fmt.Errorf("plain")))
}
