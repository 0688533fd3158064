package league

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/vplcricket/registry/internal/store"
)

func TestWriteCSVHeaderAndRows(t *testing.T) {
	players := []store.Player{
		{
			VPLID: "VPL-001", FullName: "Anil Kumar", Age: "29", Phone: "+919876543210",
			Level: "League", ContactName: "Ravi", ContactPhone: "+919876543211",
			CurrentTeam: "Strikers", PreviousTeam: "Titans", PlayingRole: "Batsman",
			PlayingStyle: "Right Hand", JerseyName: "ANIL", JerseyNumber: "7",
			JerseySize: "M", Sleeves: "Full", PaymentMethod: "UPI", Status: "Approved",
		},
		{VPLID: "VPL-002", FullName: "Sachin R", Status: "Pending Approval"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, players); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	wantHeader := "VPL ID,Full Name,Age,Phone,Cric Level,CH Name,CH Mobile," +
		"Current Team,Previous VPL Team,Role,Playing Style,Jersey Name,Jersey No," +
		"Jersey Size,Sleeves,Payment Method,Status"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Fatalf("header mismatch:\n got %q\nwant %q", got, wantHeader)
	}

	if records[1][0] != "VPL-001" || records[1][1] != "Anil Kumar" || records[1][16] != "Approved" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	if records[2][0] != "VPL-002" || records[2][16] != "Pending Approval" {
		t.Fatalf("unexpected second row: %v", records[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}
