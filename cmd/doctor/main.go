package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/has-bi/you-posm/config"
	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/sheets"
	"github.com/has-bi/you-posm/internal/storage"
)

// Diagnostic tool: checks every configuration source and probes both
// backends so deployment problems surface in one run instead of one
// failed submission at a time.
func main() {
	fmt.Println("You-POSM doctor")
	fmt.Println("Checks configuration sources, Sheets access and bucket access")

	checkEnvironment()
	checkCredentialFiles()
	checkSecretManager()

	cfg, err := config.Load()
	if err != nil {
		printSection("SUMMARY")
		fmt.Printf("FAIL configuration incomplete: %v\n", err)
		fmt.Println("Fix the items marked FAIL above before deploying.")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	checkSheetsAccess(ctx, cfg)
	checkStorageAccess(ctx, cfg)

	printSection("SUMMARY")
	fmt.Println("Anything marked FAIL above needs fixing before deployment.")
	fmt.Println("Common fixes:")
	fmt.Println("1. Grant the service account the required IAM roles")
	fmt.Println("2. Share the spreadsheet with the service account email")
	fmt.Println("3. Verify the Secret Manager secrets exist")
	fmt.Println("4. Check that credentials.json is valid for local runs")
}

func printSection(title string) {
	fmt.Printf("\n%s\n %s\n%s\n", strings.Repeat("=", 60), title, strings.Repeat("=", 60))
}

func checkEnvironment() {
	printSection("ENVIRONMENT VARIABLES")

	for _, name := range []string{
		"GOOGLE_CLOUD_PROJECT",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"GCS_BUCKET_NAME",
		"SPREADSHEET_ID",
		"GOOGLE_CREDENTIALS",
		"STORAGE_BACKEND",
	} {
		value := os.Getenv(name)
		switch {
		case value == "":
			fmt.Printf("FAIL %s: not set\n", name)
		case strings.Contains(name, "CREDENTIALS") && len(value) > 50:
			fmt.Printf("OK   %s: set (length %d)\n", name, len(value))
		default:
			fmt.Printf("OK   %s: %s\n", name, value)
		}
	}
}

func checkCredentialFiles() {
	printSection("CREDENTIAL FILES")

	paths := []string{"./credentials.json", "./service-account.json"}
	if p := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); p != "" {
		paths = append([]string{p}, paths...)
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("FAIL %s: not found\n", path)
			continue
		}
		var creds struct {
			Type        string `json:"type"`
			ProjectID   string `json:"project_id"`
			ClientEmail string `json:"client_email"`
		}
		if err := json.Unmarshal(data, &creds); err != nil {
			fmt.Printf("FAIL %s: found but invalid JSON: %v\n", path, err)
			continue
		}
		fmt.Printf("OK   %s: found\n", path)
		fmt.Printf("     type: %s, project: %s, client email: %s\n", creds.Type, creds.ProjectID, creds.ClientEmail)
	}
}

func checkSecretManager() {
	printSection("SECRET MANAGER ACCESS")

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		fmt.Println("SKIP GOOGLE_CLOUD_PROJECT not set, Secret Manager not used")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		fmt.Printf("FAIL cannot create Secret Manager client: %v\n", err)
		return
	}
	defer client.Close()
	fmt.Println("OK   Secret Manager client created")

	for _, name := range []string{
		config.SecretBucketName,
		config.SecretSpreadsheetID,
		config.SecretCredentials,
	} {
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
		})
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", name, err)
			continue
		}
		value := string(resp.GetPayload().GetData())
		if name == config.SecretCredentials {
			if json.Valid([]byte(value)) {
				fmt.Printf("OK   %s: accessible\n", name)
			} else {
				fmt.Printf("FAIL %s: accessible but invalid JSON\n", name)
			}
			continue
		}
		fmt.Printf("OK   %s: %s\n", name, value)
	}
}

func checkSheetsAccess(ctx context.Context, cfg *config.Config) {
	printSection("GOOGLE SHEETS ACCESS")

	client, err := sheets.NewClient(ctx, cfg.Google.Credentials, cfg.Google.SpreadsheetID)
	if err != nil {
		fmt.Printf("FAIL cannot authorize sheets client: %v\n", err)
		return
	}
	fmt.Println("OK   sheets client authorized")

	title, err := client.SpreadsheetTitle(ctx)
	if err != nil {
		fmt.Printf("FAIL cannot access spreadsheet: %v\n", err)
		fmt.Println("     Share the spreadsheet with the service account email (Editor)")
		return
	}
	fmt.Printf("OK   spreadsheet accessible: %q\n", title)

	rows, err := client.Rows(ctx, model.LedgerSheet)
	if err != nil {
		fmt.Printf("FAIL cannot read ledger sheet: %v\n", err)
		return
	}
	if len(rows) > 0 {
		fmt.Printf("OK   ledger headers: %v\n", rows[0])
	} else {
		fmt.Println("WARN ledger sheet is empty, header row will be written on first start")
	}
	fmt.Printf("OK   ledger data rows: %d\n", max(len(rows)-1, 0))

	// Write probe: append a marker row, count growth, nothing deleted
	// (the Sheets API has no safe single-row delete without the sheet
	// id, so the probe row is left for the operator to remove).
	probe := []interface{}{"DOCTOR-PROBE", "", "", "", "", time.Now().Format(model.TimestampLayout), "", ""}
	if err := client.Append(ctx, model.LedgerSheet, probe); err != nil {
		fmt.Printf("FAIL write probe failed: %v\n", err)
		return
	}
	fmt.Println("OK   write access works (probe row DOCTOR-PROBE appended, remove it manually)")
}

func checkStorageAccess(ctx context.Context, cfg *config.Config) {
	printSection("OBJECT STORAGE ACCESS")

	if cfg.Storage.Backend == "s3" {
		fmt.Printf("SKIP backend is s3 (bucket %s), probe not implemented for s3\n", cfg.Storage.S3.Bucket)
		return
	}

	store, err := storage.NewGCSStorage(ctx, cfg.Google.Credentials, cfg.Google.BucketName)
	if err != nil {
		fmt.Printf("FAIL cannot create storage client: %v\n", err)
		return
	}
	fmt.Println("OK   storage client created")

	if err := store.Probe(ctx); err != nil {
		fmt.Printf("FAIL bucket %q not accessible: %v\n", cfg.Google.BucketName, err)
		return
	}
	fmt.Printf("OK   bucket %q exists\n", cfg.Google.BucketName)

	if err := store.WriteProbeObject(ctx); err != nil {
		fmt.Printf("FAIL upload/delete probe failed: %v\n", err)
		return
	}
	fmt.Println("OK   upload/delete permissions work")
}
