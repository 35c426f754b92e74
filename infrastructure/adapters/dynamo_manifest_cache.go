package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"podcast-shorts-pipeline/application/ports/outbound"
	"podcast-shorts-pipeline/config"
	"podcast-shorts-pipeline/domain"
)

type dynamoManifestItem struct {
	RunID    string `dynamodbav:"run_id"`
	Stage    string `dynamodbav:"stage"`
	Manifest string `dynamodbav:"manifest"`
	TTL      int64  `dynamodbav:"ttl"`
}

type dynamoManifestCache struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoManifestCache(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB,
	dynamoConfig *config.DynamoConfig) outbound.ManifestCachePort {
	return &dynamoManifestCache{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (c *dynamoManifestCache) Save(ctx context.Context, stage domain.Stage, manifest *domain.Manifest) error {
	payload, err := json.Marshal(manifest)
	if err != nil {
		c.logger.Error(err, "Failed to marshal manifest snapshot")
		return err
	}

	item := dynamoManifestItem{
		RunID:    manifest.RunID,
		Stage:    string(stage),
		Manifest: string(payload),
		TTL:      time.Now().Add(time.Duration(c.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal manifest item", map[string]interface{}{
			"run_id": manifest.RunID,
			"stage":  string(stage),
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save manifest snapshot", map[string]interface{}{
			"run_id": manifest.RunID,
			"stage":  string(stage),
		})
		return err
	}

	return nil
}
