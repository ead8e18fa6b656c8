package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/config"
)

// DynamoDB is the Store backend over an AWS DynamoDB single table with a
// string pk/sk primary key and a GSI1 index over gsi1pk/gsi1sk.
type DynamoDB struct {
	client *dynamodb.Client
	log    zerolog.Logger
}

// NewDynamoDB creates a DynamoDB-backed store. An Endpoint in cfg overrides
// the resolved endpoint for local development against DynamoDB Local.
func NewDynamoDB(ctx context.Context, cfg *config.StoreConfig, log zerolog.Logger) (*DynamoDB, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	d := &DynamoDB{
		client: client,
		log:    log.With().Str("component", "dynamodb").Logger(),
	}
	d.log.Info().Str("region", cfg.Region).Str("table", cfg.Table).Msg("DynamoDB store initialized")
	return d, nil
}

// PutItem writes one item as a single point-insert.
func (d *DynamoDB) PutItem(ctx context.Context, table string, item Item) error {
	av, err := attributevalue.MarshalMap(map[string]any(item))
	if err != nil {
		return fmt.Errorf("marshalling item for dynamo: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting item to dynamo: %w", err)
	}
	return nil
}

// Query runs one range query. The equality filter maps to a
// FilterExpression, which DynamoDB applies after the pagination window is
// cut, matching the contract's page semantics natively.
func (d *DynamoDB) Query(ctx context.Context, q Query) (*Result, error) {
	pkAttr, skAttr := keyAttrs(q.Index)

	names := map[string]string{"#pk": pkAttr}
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: q.Partition},
	}
	keyCond := "#pk = :pk"
	if q.SortPrefix != "" {
		names["#sk"] = skAttr
		values[":skp"] = &types.AttributeValueMemberS{Value: q.SortPrefix}
		keyCond += " AND begins_with(#sk, :skp)"
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(q.Table),
		KeyConditionExpression:    aws.String(keyCond),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(q.ScanForward),
	}
	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(int32(q.Limit))
	}
	if q.FilterField != "" {
		names["#f"] = q.FilterField
		values[":fv"] = &types.AttributeValueMemberS{Value: q.FilterValue}
		input.FilterExpression = aws.String("#f = :fv")
	}
	if len(q.ExclusiveStartKey) > 0 {
		start := make(map[string]types.AttributeValue, len(q.ExclusiveStartKey))
		for k, v := range q.ExclusiveStartKey {
			start[k] = &types.AttributeValueMemberS{Value: v}
		}
		input.ExclusiveStartKey = start
	}

	resp, err := d.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying dynamo: %w", err)
	}

	result := &Result{}
	for _, av := range resp.Items {
		item := Item{}
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return nil, fmt.Errorf("unmarshalling dynamo item: %w", err)
		}
		result.Items = append(result.Items, item)
	}
	if len(resp.LastEvaluatedKey) > 0 {
		key := Key{}
		for k, av := range resp.LastEvaluatedKey {
			if s, ok := av.(*types.AttributeValueMemberS); ok {
				key[k] = s.Value
			}
		}
		result.LastEvaluatedKey = key
	}
	return result, nil
}
