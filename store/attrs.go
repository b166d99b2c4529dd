package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// avS wraps a string as a DynamoDB string attribute value.
func avS(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// avBool wraps a bool as a DynamoDB boolean attribute value.
func avBool(v bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: v}
}

// avN wraps an already-formatted number as a DynamoDB number attribute value.
func avN(v string) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: v}
}
