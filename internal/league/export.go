package league

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vplcricket/registry/internal/store"
)

// ExportFilename is the fixed attachment name for the full player export.
const ExportFilename = "VPL_Full_Export_2026.csv"

// exportHeader is the fixed column set covering every profile field. Order is
// part of the export contract.
var exportHeader = []string{
	"VPL ID", "Full Name", "Age", "Phone", "Cric Level",
	"CH Name", "CH Mobile", "Current Team", "Previous VPL Team",
	"Role", "Playing Style", "Jersey Name", "Jersey No",
	"Jersey Size", "Sleeves", "Payment Method", "Status",
}

// WriteCSV writes one row per player in the fixed column order.
func WriteCSV(w io.Writer, players []store.Player) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("error writing export header: %w", err)
	}

	for _, p := range players {
		row := []string{
			p.VPLID, p.FullName, p.Age, p.Phone, p.Level,
			p.ContactName, p.ContactPhone, p.CurrentTeam, p.PreviousTeam,
			p.PlayingRole, p.PlayingStyle, p.JerseyName, p.JerseyNumber,
			p.JerseySize, p.Sleeves, p.PaymentMethod, p.Status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
