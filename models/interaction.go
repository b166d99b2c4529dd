package models

// LikeAction records a swipe-right from one user toward another.
// A like only feeds match computation while it is younger than LikeTTL.
type LikeAction struct {
	From      string `dynamodbav:"from" json:"from"`
	To        string `dynamodbav:"to" json:"to"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// SkipAction records a swipe-left. It hides the target from the
// skipper's discovery pool until it is older than SkipTTL.
type SkipAction struct {
	From      string `dynamodbav:"from" json:"from"`
	To        string `dynamodbav:"to" json:"to"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// LikesTable is the DynamoDB table name for like actions
const LikesTable = "Likes"

// SkipsTable is the DynamoDB table name for skip actions
const SkipsTable = "Skips"

// LikesToIndex is the GSI used to query likes by recipient
const LikesToIndex = "to-index"
