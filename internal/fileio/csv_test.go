package fileio

import (
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	cases := []struct {
		name string
		body string
		rows int
	}{
		{
			name: "comma",
			body: "Description,Class,Qty\nCable Tray 200x50,ELEC,4\nBend 90,ELEC,2\n",
			rows: 2,
		},
		{
			name: "semicolon",
			body: "Description;Class;Qty\nCable Tray 200x50;ELEC;4\n",
			rows: 1,
		},
		{
			name: "tab",
			body: "Description\tClass\tQty\nCable Tray 200x50\tELEC\t4\n",
			rows: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadTable(strings.NewReader(tc.body), "schedule.csv", 1)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if len(got) != tc.rows {
				t.Fatalf("rows = %d, want %d", len(got), tc.rows)
			}
			if got[0]["Description"] != "Cable Tray 200x50" {
				t.Fatalf("first row = %+v", got[0])
			}
			if got[0]["Qty"] != "4" {
				t.Fatalf("qty = %q, want 4", got[0]["Qty"])
			}
		})
	}
}

func TestReadCSVHeaderRow(t *testing.T) {
	body := "Schedule export rev 3,,\nDescription,Class,Qty\nCable Tray 200x50,ELEC,4\n"
	got, err := ReadTable(strings.NewReader(body), "schedule.csv", 2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0]["Class"] != "ELEC" {
		t.Fatalf("row = %+v", got[0])
	}
}

func TestReadTableUnsupported(t *testing.T) {
	if _, err := ReadTable(strings.NewReader("x"), "schedule.pdf", 1); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
