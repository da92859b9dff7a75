package google

import (
	"context"
	"strings"
	"testing"

	"gigbook/internal/report"
)

func clearGoogleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SPREADSHEET_ID",
		"GOOGLE_REPORT_SHEET_NAME",
		"GOOGLE_SERVICE_ACCOUNT_JSON",
		"GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnvRequiresSpreadsheetID(t *testing.T) {
	clearGoogleEnv(t)

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_SPREADSHEET_ID") {
		t.Fatalf("expected missing spreadsheet id error, got %v", err)
	}
}

func TestNewFromEnvRequiresCredentials(t *testing.T) {
	clearGoogleEnv(t)
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestNewFromEnvUnreadableCredentialFile(t *testing.T) {
	clearGoogleEnv(t)
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/nonexistent/credentials.json")

	_, err := NewFromEnv(context.Background())
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected file read error, got %v", err)
	}
}

func TestAppendWithoutServiceFails(t *testing.T) {
	c := &Client{spreadsheetID: "sheet-123", sheetName: "2024 Reports"}
	if _, err := c.Append(context.Background(), report.MonthlyReport{Month: "2024-03"}); err == nil {
		t.Fatal("expected error when service not initialized")
	}
}
