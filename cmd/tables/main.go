// Command tables provisions the messages table and its two secondary
// indexes, typically against a local DynamoDB. It is idempotent: an
// existing table is reported, not an error.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"message-api/internal/config"
)

func main() {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWS.Region)}
	if cfg.AWS.DynamoDBEndpoint != "" {
		// Local DynamoDB accepts any static credentials.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.AWS.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.DynamoDBEndpoint)
		}
	})

	if err := createMessagesTable(ctx, client, cfg); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			log.Info("table already exists", "table", cfg.DynamoDB.TableMessages)
			return
		}
		log.Error("failed to create table", "table", cfg.DynamoDB.TableMessages, "err", err)
		os.Exit(1)
	}
	log.Info("table created", "table", cfg.DynamoDB.TableMessages)
}

func createMessagesTable(ctx context.Context, client *awsdynamodb.Client, cfg *config.Config) error {
	_, err := client.CreateTable(ctx, &awsdynamodb.CreateTableInput{
		TableName: aws.String(cfg.DynamoDB.TableMessages),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("createdAt"), AttributeType: types.ScalarAttributeTypeN},
			{AttributeName: aws.String("sender"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("entity"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				// Search messages by sender.
				IndexName: aws.String(cfg.DynamoDB.IndexSenderMessages),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("sender"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("createdAt"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
			{
				// Search messages by period.
				IndexName: aws.String(cfg.DynamoDB.IndexCreatedAt),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("entity"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("createdAt"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	return err
}
