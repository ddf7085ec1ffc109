package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"sol-backend/application/ports"
	"sol-backend/infrastructure/persistence/query"
	pkgerrors "sol-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Key attributes of the single-table layout:
//
//	PK     TABLE#<table>#<owner>   partition per table and owner email
//	SK     <id>
//	GSI1PK <table>#<id>            lookup by id alone (Update)
const (
	attrPK     = "PK"
	attrSK     = "SK"
	attrGSI1PK = "GSI1PK"
)

// DefaultPartitionFields maps each table to the column its records are partitioned by.
var DefaultPartitionFields = map[string]string{
	ports.TableProfiles:      "email",
	ports.TableMessages:      "user_email",
	ports.TableInsights:      "user_email",
	ports.TableVisioningDocs: "user_email",
	ports.TableBusinessPlans: "user_email",
}

// API is the subset of the DynamoDB client the store calls.
type API interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// RecordStore implements ports.RecordStore on a single DynamoDB table.
type RecordStore struct {
	client     API
	tableName  string
	indexName  string
	partitions map[string]string
	logger     *zap.Logger
}

// NewRecordStore creates a store on tableName; indexName is the GSI keyed by GSI1PK.
func NewRecordStore(client API, tableName, indexName string, logger *zap.Logger) *RecordStore {
	return &RecordStore{
		client:     client,
		tableName:  tableName,
		indexName:  indexName,
		partitions: DefaultPartitionFields,
		logger:     logger,
	}
}

// Find queries the owner's partition when q filters on the partition field, and
// scans the table prefix otherwise. Sorting and limits are applied after all
// pages are read, since DynamoDB limits before filtering.
func (s *RecordStore) Find(ctx context.Context, table string, q ports.Query) ([]ports.Record, error) {
	items, err := s.collect(ctx, table, q.Filters)
	if err != nil {
		return nil, err
	}
	return query.Apply(items, ports.Query{SortField: q.SortField, Descending: q.Descending, Limit: q.Limit}), nil
}

// Count returns how many records match q's filters
func (s *RecordStore) Count(ctx context.Context, table string, q ports.Query) (int, error) {
	items, err := s.collect(ctx, table, q.Filters)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Create writes a new item; the owner column must be set
func (s *RecordStore) Create(ctx context.Context, table string, fields ports.Record) (ports.Record, error) {
	rec := query.Copy(fields)
	if rec.ID() == "" {
		rec["id"] = uuid.New().String()
	}

	owner, err := s.ownerOf(table, rec)
	if err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(map[string]interface{}(rec))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", table, err)
	}
	item[attrPK] = &types.AttributeValueMemberS{Value: PartitionKey(table, owner)}
	item[attrSK] = &types.AttributeValueMemberS{Value: rec.ID()}
	item[attrGSI1PK] = &types.AttributeValueMemberS{Value: IDKey(table, rec.ID())}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		s.logger.Error("Failed to put item",
			zap.String("table", table),
			zap.String("id", rec.ID()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create %s record%s: %w", table, awsCode(err), err)
	}
	return rec, nil
}

// Update resolves the item's key through the id index and patches fields
func (s *RecordStore) Update(ctx context.Context, table, id string, fields ports.Record) (ports.Record, error) {
	key, err := s.keyForID(ctx, table, id)
	if err != nil {
		return nil, err
	}

	var update expression.UpdateBuilder
	n := 0
	for k, v := range fields {
		if k == "id" || isKeyAttr(k) {
			continue
		}
		if n == 0 {
			update = expression.Set(expression.Name(k), expression.Value(v))
		} else {
			update = update.Set(expression.Name(k), expression.Value(v))
		}
		n++
	}
	if n == 0 {
		return s.get(ctx, key)
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(attrPK))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, fmt.Errorf("%s/%s: %w", table, id, pkgerrors.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to update %s/%s%s: %w", table, id, awsCode(err), err)
	}
	return FromItem(out.Attributes)
}

// Ping issues a cheap GetItem against the table
func (s *RecordStore) Ping(ctx context.Context) error {
	_, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			attrPK: &types.AttributeValueMemberS{Value: "PING"},
			attrSK: &types.AttributeValueMemberS{Value: "PING"},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb ping failed%s: %w", awsCode(err), err)
	}
	return nil
}

func (s *RecordStore) collect(ctx context.Context, table string, filters []ports.Filter) ([]ports.Record, error) {
	owner, rest := splitOwnerFilter(s.partitions[table], filters)

	var records []ports.Record
	if owner != "" {
		builder := expression.NewBuilder().
			WithKeyCondition(expression.Key(attrPK).Equal(expression.Value(PartitionKey(table, owner))))
		if cond, ok := filterCondition(rest); ok {
			builder = builder.WithFilter(cond)
		}
		expr, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build query expression: %w", err)
		}

		paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
			TableName:                 aws.String(s.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to query %s%s: %w", table, awsCode(err), err)
			}
			if records, err = appendItems(records, page.Items); err != nil {
				return nil, err
			}
		}
		return records, nil
	}

	cond := expression.Name(attrPK).BeginsWith(tablePrefix(table))
	if extra, ok := filterCondition(filters); ok {
		cond = cond.And(extra)
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan expression: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s%s: %w", table, awsCode(err), err)
		}
		if records, err = appendItems(records, page.Items); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *RecordStore) keyForID(ctx context.Context, table, id string) (map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(attrGSI1PK).Equal(expression.Value(IDKey(table, id)))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build id lookup: %w", err)
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s/%s: %w", table, id, err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", table, id, pkgerrors.ErrRecordNotFound)
	}

	return map[string]types.AttributeValue{
		attrPK: out.Items[0][attrPK],
		attrSK: out.Items[0][attrSK],
	}, nil
}

func (s *RecordStore) get(ctx context.Context, key map[string]types.AttributeValue) (ports.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.ErrRecordNotFound
	}
	return FromItem(out.Item)
}

func (s *RecordStore) ownerOf(table string, rec ports.Record) (string, error) {
	field, ok := s.partitions[table]
	if !ok {
		return "", fmt.Errorf("no partition field configured for table %s", table)
	}
	owner, _ := rec[field].(string)
	if owner == "" {
		return "", fmt.Errorf("%s record is missing %s", table, field)
	}
	return owner, nil
}

// PartitionKey returns the PK of records owned by owner in table.
func PartitionKey(table, owner string) string {
	return tablePrefix(table) + owner
}

// IDKey returns the GSI1PK used to find a record by id.
func IDKey(table, id string) string {
	return table + "#" + id
}

func tablePrefix(table string) string {
	return "TABLE#" + table + "#"
}

func isKeyAttr(name string) bool {
	return name == attrPK || name == attrSK || name == attrGSI1PK
}

// FromItem converts a DynamoDB item back into a record, dropping key attributes.
func FromItem(item map[string]types.AttributeValue) (ports.Record, error) {
	var rec map[string]interface{}
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	for k := range rec {
		if isKeyAttr(k) {
			delete(rec, k)
		}
	}
	return ports.Record(rec), nil
}

func appendItems(records []ports.Record, items []map[string]types.AttributeValue) ([]ports.Record, error) {
	for _, item := range items {
		rec, err := FromItem(item)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// splitOwnerFilter pulls the equality filter on the partition field out of filters.
func splitOwnerFilter(field string, filters []ports.Filter) (string, []ports.Filter) {
	rest := make([]ports.Filter, 0, len(filters))
	owner := ""
	for _, f := range filters {
		if owner == "" && field != "" && f.Field == field && f.Op == ports.OpEq {
			owner = f.Value
			continue
		}
		rest = append(rest, f)
	}
	return owner, rest
}

func filterCondition(filters []ports.Filter) (expression.ConditionBuilder, bool) {
	var cond expression.ConditionBuilder
	if len(filters) == 0 {
		return cond, false
	}
	for i, f := range filters {
		name, value := expression.Name(f.Field), expression.Value(f.Value)
		var c expression.ConditionBuilder
		switch f.Op {
		case ports.OpNeq:
			c = name.NotEqual(value)
		case ports.OpGt:
			c = name.GreaterThan(value)
		case ports.OpGte:
			c = name.GreaterThanEqual(value)
		case ports.OpLt:
			c = name.LessThan(value)
		default:
			c = name.Equal(value)
		}
		if i == 0 {
			cond = c
		} else {
			cond = cond.And(c)
		}
	}
	return cond, true
}

// awsCode renders the service error code, e.g. " (ProvisionedThroughputExceededException)".
func awsCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		return " (" + apiErr.ErrorCode() + ")"
	}
	return ""
}
