package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EncodeCursor turns a LastEvaluatedKey into an opaque page token.
// Attribute values go through attributevalue so their types survive.
func EncodeCursor(lastEvaluatedKey map[string]types.AttributeValue) (string, error) {
	if len(lastEvaluatedKey) == 0 {
		return "", nil
	}
	var plain map[string]interface{}
	if err := attributevalue.UnmarshalMap(lastEvaluatedKey, &plain); err != nil {
		return "", fmt.Errorf("invalid cursor key: %w", err)
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("invalid cursor key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor turns a page token back into an ExclusiveStartKey.
func DecodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	if cursor == "" {
		return nil, nil
	}
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}
	var plain map[string]interface{}
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("invalid cursor data: %w", err)
	}
	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor data: %w", err)
	}
	return key, nil
}
