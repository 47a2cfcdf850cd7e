package tally

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rgtechno/tallybridge/internal/models"
)

func testOrder() (models.Order, []models.OrderItem) {
	order := models.Order{
		OrderNo:       "2025-0042",
		CustomerName:  "Globex Retail",
		CustomerEmail: "accounts@globex.test",
		CustomerGstNo: "29ABCDE1234F1Z5",
		ShipStreet:    "14 Industrial Estate",
		ShipState:     "Karnataka",
		ShipCountry:   "India",
		ShipPincode:   "560001",
		TotalPrice:    1000,
		Discount:      5,
	}
	items := []models.OrderItem{
		{ItemName: "Hex Bolt M8", Quantity: 40, SellingPrice: 12.5, GstRate: 18},
		{ItemName: "Washer", Quantity: 100, SellingPrice: 5, GstRate: 18},
	}
	return order, items
}

func TestRenderInvoiceIntrastate(t *testing.T) {
	order, items := testOrder()
	now := time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)

	xml, err := RenderInvoice(order, items, "Karnataka", "", ResolveLedgerNames(nil), now)
	require.NoError(t, err)

	require.Contains(t, xml, "<TALLYREQUEST>Import Data</TALLYREQUEST>")
	require.Contains(t, xml, "<SVCURRENTCOMPANY>"+DefaultCompany+"</SVCURRENTCOMPANY>")
	require.Contains(t, xml, "<VOUCHERNUMBER>2025-0042</VOUCHERNUMBER>")
	require.Contains(t, xml, "<DATE>20250814</DATE>")
	require.Contains(t, xml, `<ORDERDUEDATE P="14-08-2025">14-08-2025</ORDERDUEDATE>`)

	// same-state split: 9% + 9% on the order total, no interstate line
	require.Contains(t, xml, "<LEDGERNAME>CGST</LEDGERNAME>")
	require.Contains(t, xml, "<LEDGERNAME>SGST</LEDGERNAME>")
	require.NotContains(t, xml, "<LEDGERNAME>IGST</LEDGERNAME>")
	require.Equal(t, 2, strings.Count(xml, "<AMOUNT>90.00</AMOUNT>"))

	// discount is negative, two decimal places
	require.Contains(t, xml, "<AMOUNT>-50.00</AMOUNT>")
	require.Contains(t, xml, "<VATEXPAMOUNT>-50.00</VATEXPAMOUNT>")

	// party ledger line carries the negated total
	require.Contains(t, xml, "<AMOUNT>-1000</AMOUNT>")

	// per-item lines
	require.Contains(t, xml, "<STOCKITEMNAME>Hex Bolt M8</STOCKITEMNAME>")
	require.Contains(t, xml, "<RATE>12.5/PCS</RATE>")
	require.Contains(t, xml, "<AMOUNT>500</AMOUNT>")
	require.Contains(t, xml, "<ACTUALQTY>40 PCS</ACTUALQTY>")

	// literal control-char entities survive rendering
	require.Contains(t, xml, "&#4; Not Applicable")
}

func TestRenderInvoiceInterstate(t *testing.T) {
	order, items := testOrder()
	now := time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)

	xml, err := RenderInvoice(order, items, "Maharashtra", "", ResolveLedgerNames(nil), now)
	require.NoError(t, err)

	require.Contains(t, xml, "<LEDGERNAME>IGST</LEDGERNAME>")
	require.Contains(t, xml, "<AMOUNT>180.00</AMOUNT>")
	require.NotContains(t, xml, "<LEDGERNAME>CGST</LEDGERNAME>")
	require.NotContains(t, xml, "<LEDGERNAME>SGST</LEDGERNAME>")
}

func TestRenderInvoiceConfiguredLedgerNames(t *testing.T) {
	order, items := testOrder()
	names := ResolveLedgerNames(map[string]string{
		models.LedgerNameSales:      "Domestic Sales",
		models.LedgerNameDiscount:   "Trade Discount",
		models.LedgerNameInterstate: "IGST Output",
	})

	xml, err := RenderInvoice(order, items, "Maharashtra", "RG TEST CO", names, time.Now())
	require.NoError(t, err)

	require.Contains(t, xml, "<SVCURRENTCOMPANY>RG TEST CO</SVCURRENTCOMPANY>")
	require.Contains(t, xml, "<LEDGERNAME>Domestic Sales</LEDGERNAME>")
	require.Contains(t, xml, "<LEDGERNAME>Trade Discount</LEDGERNAME>")
	require.Contains(t, xml, "<LEDGERNAME>IGST Output</LEDGERNAME>")
}

func TestResolveLedgerNamesDefaults(t *testing.T) {
	names := ResolveLedgerNames(map[string]string{models.LedgerNameCentral: ""})
	require.Equal(t, "Sales", names.Sales)
	require.Equal(t, "Discount", names.Discount)
	require.Equal(t, "CGST", names.Central)
	require.Equal(t, "SGST", names.State)
	require.Equal(t, "IGST", names.Interstate)
}
