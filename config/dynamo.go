package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("MANIFEST_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("MANIFEST_TABLE_NAME must be set")
	}

	return &DynamoConfig{
		TableName:  tableName,
		TtlMinutes: envOrDefaultInt("MANIFEST_TTL_MINUTES", 1440),
	}, nil
}
