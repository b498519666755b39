package config

import (
	"fmt"
	"os"
	"strconv"
)

type DynamoConfig struct {
	TableName string
	TtlHours  int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("DYNAMO_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME must be set")
	}

	ttlHours := 24
	if raw := os.Getenv("WORKFLOW_TTL_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("WORKFLOW_TTL_HOURS must be an integer: %w", err)
		}
		ttlHours = parsed
	}

	return &DynamoConfig{
		TableName: tableName,
		TtlHours:  ttlHours,
	}, nil
}
