package models

// Report is a user-submitted abuse report. At most one report exists per
// (reporter, reported) pair; duplicates are rejected, not overwritten.
type Report struct {
	ReporterID string `dynamodbav:"reporterId" json:"reporterId"`
	ReportedID string `dynamodbav:"reportedId" json:"reportedId"`
	Reason     string `dynamodbav:"reason" json:"reason"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// FlaggedUser is an aggregated moderation row for the admin dashboard
type FlaggedUser struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
	ReportCount  int    `json:"reportCount"`
}

// ReportsTable is the DynamoDB table name for reports
const ReportsTable = "Reports"

// ReportsReporterIndex is the GSI used to query reports by reporter
const ReportsReporterIndex = "reporter-index"
