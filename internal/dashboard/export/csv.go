package export

import (
	"encoding/csv"
	"io"

	"github.com/adlens/adlens/internal/aggregate"
	"github.com/adlens/adlens/internal/reporting"
)

// WriteBrandCSV serialises brand target rows.
func WriteBrandCSV(w io.Writer, rows []reporting.BrandTargetRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Brand", "Date", "Daily Sales", "Target", "Target Achieved", "Percentage Achieved"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.Brand.String(),
			row.DateTime.String(),
			number(row.DailySales),
			number(row.Target),
			number(row.TargetAchieved),
			aggregate.RowPercent(row),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAsinCSV serialises the ASIN rows of one ad group.
func WriteAsinCSV(w io.Writer, rows []reporting.AsinRow) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"ASIN", "SKU", "Campaign ID", "Ad Group ID", "Status",
		"Impressions", "Clicks", "CTR", "Cost", "Sales (1d)", "Purchases (1d)", "ACoS", "ROAS",
	}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{
			row.AdvertisedAsin.String(),
			row.AdvertisedSku.String(),
			row.CampaignID.String(),
			row.AdGroupID.String(),
			row.CampaignStatus.String(),
			number(row.Impressions),
			number(row.Clicks),
			row.ClickThroughRate.String(),
			number(row.Cost),
			number(row.Sales1d),
			number(row.Purchases1d),
			row.ACoS.String(),
			row.ROAS.String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// number leaves absent values blank so spreadsheets read them as empty.
func number(n reporting.Number) string {
	if !n.Valid {
		return ""
	}
	return n.Raw
}
