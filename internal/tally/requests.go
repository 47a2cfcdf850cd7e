package tally

import (
	"fmt"
	"time"
)

// FinancialYearWindow returns the April 1 – March 31 reporting window the
// remote system expects on ledger, stock and item exports, as YYYYMMDD.
func FinancialYearWindow(now time.Time) (from, to string) {
	year := now.Year()
	return fmt.Sprintf("%d0401", year), fmt.Sprintf("%d0331", year+1)
}

const exportEnvelope = `<ENVELOPE>
<HEADER>
<TALLYREQUEST>Export Data</TALLYREQUEST>
</HEADER>
<BODY>
<EXPORTDATA>
<REQUESTDESC>
<STATICVARIABLES>
%s<SVEXPORTFORMAT>$$SysName:XML</SVEXPORTFORMAT>
</STATICVARIABLES>
<REPORTNAME>%s</REPORTNAME>
</REQUESTDESC>
</EXPORTDATA>
</BODY>
</ENVELOPE>
`

func windowVariables(now time.Time) string {
	from, to := FinancialYearWindow(now)
	return fmt.Sprintf("<SVFROMDATE>%s</SVFROMDATE>\n<SVTODATE>%s</SVTODATE>\n", from, to)
}

// ItemsRequest builds the stock-item master export envelope.
func ItemsRequest(now time.Time) string {
	return fmt.Sprintf(exportEnvelope, windowVariables(now), "Rpt_TNX_ExpItemMaster")
}

// StockSummaryRequest builds the closing-stock summary export envelope.
func StockSummaryRequest(now time.Time) string {
	return fmt.Sprintf(exportEnvelope, windowVariables(now), "Rpt_TNX_ExpStockSummary")
}

// VendorsRequest builds the supplier-ledger master export envelope. Vendor
// masters are not period-scoped, so no reporting window is sent.
func VendorsRequest() string {
	return fmt.Sprintf(exportEnvelope, "", "Rpt_TNX_ExpLedMaster")
}

// OutstandingRequest builds the outstanding-receivables export envelope.
func OutstandingRequest(now time.Time) string {
	return fmt.Sprintf(exportEnvelope, windowVariables(now), "Rpt_TNX_ExpOutstandings")
}

// LedgerStatementsRequest builds the ledger-statement export envelope,
// including bill explosion and running balances.
func LedgerStatementsRequest(now time.Time) string {
	vars := windowVariables(now) +
		"<DBBILLEXPLODEFLAG>YES</DBBILLEXPLODEFLAG>\n" +
		"<EXPLODEVNUM>YES</EXPLODEVNUM>\n" +
		"<SHOWRUNBALANCE>Yes</SHOWRUNBALANCE>\n"
	return fmt.Sprintf(exportEnvelope, vars, "Rpt_TNX_ExpLedStat")
}
