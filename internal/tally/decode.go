package tally

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/rgtechno/tallybridge/internal/models"
)

// The remote reports embed a 0x04 control byte (sometimes as a character
// reference) inside text fields, and several reports return bare element
// streams rather than a single document. Responses are sanitized and, where
// needed, wrapped in a synthetic root before decoding.

func sanitizeXML(raw string) string {
	raw = strings.ReplaceAll(raw, "&#4;", "")
	raw = strings.ReplaceAll(raw, "&#x4;", "")
	return strings.ReplaceAll(raw, "\x04", "")
}

func cleanString(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, "\x04", ""))
}

// parseFloat falls back to 0 so one malformed field never aborts a batch.
func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(cleanString(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(v string) int {
	n, err := strconv.Atoi(cleanString(v))
	if err != nil {
		return 0
	}
	return n
}

type itemXML struct {
	ItemName          string `xml:"ITEMNAME"`
	Alias             string `xml:"ALIAS"`
	PartNo            string `xml:"PARTNO"`
	Description       string `xml:"DESCRIPTION"`
	Group             string `xml:"GROUP"`
	SubGroup1         string `xml:"SUBGROUP1"`
	SubGroup2         string `xml:"SUBGROUP2"`
	StdPkg            string `xml:"STDPKG"`
	StdWeight         string `xml:"STDWEIGHT"`
	BaseUnit          string `xml:"BASEUNIT"`
	AlternateUnit     string `xml:"ALTERNATEUNIT"`
	Conversion        string `xml:"CONVERSION"`
	Denominator       string `xml:"DENOMINATOR"`
	SellingPriceDate  string `xml:"SELLINGPRICEDATE"`
	SellingPrice      string `xml:"SELLINGPRICE"`
	GstApplicable     string `xml:"GSTAPPLICABLE"`
	GstApplicableDate string `xml:"GSTAPPLICABLEDATE"`
	Taxability        string `xml:"TAXABILITY"`
	GstRate           string `xml:"GSTRATE"`
}

type itemsEnvelope struct {
	Items []itemXML `xml:"STOCKITEM"`
}

// DecodeItems parses the stock-item master export.
func DecodeItems(raw string) ([]models.Item, error) {
	var env itemsEnvelope
	if err := xml.Unmarshal([]byte(sanitizeXML(raw)), &env); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]models.Item, 0, len(env.Items))
	for _, it := range env.Items {
		denominator := parseInt(it.Denominator)
		if denominator == 0 {
			denominator = 1
		}
		items = append(items, models.Item{
			ItemName:          cleanString(it.ItemName),
			Alias:             cleanString(it.Alias),
			PartNo:            cleanString(it.PartNo),
			Description:       cleanString(it.Description),
			Group:             cleanString(it.Group),
			SubGroup1:         cleanString(it.SubGroup1),
			SubGroup2:         cleanString(it.SubGroup2),
			StdPkg:            parseInt(it.StdPkg),
			StdWeight:         parseInt(it.StdWeight),
			BaseUnit:          cleanString(it.BaseUnit),
			AlternateUnit:     cleanString(it.AlternateUnit),
			Conversion:        cleanString(it.Conversion),
			Denominator:       denominator,
			SellingPriceDate:  cleanString(it.SellingPriceDate),
			SellingPrice:      parseFloat(it.SellingPrice),
			GstApplicable:     cleanString(it.GstApplicable),
			GstApplicableDate: cleanString(it.GstApplicableDate),
			Taxability:        cleanString(it.Taxability),
			GstRate:           parseFloat(it.GstRate),
		})
	}
	return items, nil
}

type stockXML struct {
	ItemName     string `xml:"ITEMNAME"`
	Group        string `xml:"GROUP"`
	SubGroup1    string `xml:"SUBGROUP1"`
	SubGroup2    string `xml:"SUBGROUP2"`
	ClosingStock string `xml:"CLOSINGSTOCK"`
}

type stockEnvelope struct {
	Summaries []stockXML `xml:"STOCKSUMMARY"`
}

// DecodeStockLevels parses the closing-stock summary export. The report
// returns bare STOCKSUMMARY fragments.
func DecodeStockLevels(raw string) ([]models.StockLevel, error) {
	wrapped := "<STOCKSUMMARIES>" + sanitizeXML(raw) + "</STOCKSUMMARIES>"
	var env stockEnvelope
	if err := xml.Unmarshal([]byte(wrapped), &env); err != nil {
		return nil, fmt.Errorf("decode stock summary: %w", err)
	}

	levels := make([]models.StockLevel, 0, len(env.Summaries))
	for _, s := range env.Summaries {
		levels = append(levels, models.StockLevel{
			ItemName:  cleanString(s.ItemName),
			Group:     cleanString(s.Group),
			SubGroup1: cleanString(s.SubGroup1),
			SubGroup2: cleanString(s.SubGroup2),
			Quantity:  strconv.FormatFloat(parseFloat(s.ClosingStock), 'f', -1, 64),
		})
	}
	return levels, nil
}

type vendorXML struct {
	SlNo          string `xml:"SLNO"`
	Name          string `xml:"NAME"`
	Alias         string `xml:"ALIAS"`
	Active        string `xml:"ACTIVE"`
	Parent        string `xml:"PARENT"`
	Address       string `xml:"ADDRESS"`
	Country       string `xml:"COUNTRY"`
	State         string `xml:"STATE"`
	Pincode       string `xml:"PINCODE"`
	ContactPerson string `xml:"CONTACTPERSON"`
	Phone         string `xml:"PHONE"`
	Email         string `xml:"EMAIL"`
	Pan           string `xml:"PAN"`
	GstType       string `xml:"GSTTYPE"`
	GstNo         string `xml:"GSTNO"`
	GstDetails    string `xml:"GSTDETAILS"`
}

type vendorsEnvelope struct {
	Ledgers []vendorXML `xml:"LEDGER"`
}

// DecodeVendors parses the supplier-ledger master export.
func DecodeVendors(raw string) ([]models.Vendor, error) {
	var env vendorsEnvelope
	if err := xml.Unmarshal([]byte(sanitizeXML(raw)), &env); err != nil {
		return nil, fmt.Errorf("decode vendors: %w", err)
	}

	vendors := make([]models.Vendor, 0, len(env.Ledgers))
	for _, v := range env.Ledgers {
		vendors = append(vendors, models.Vendor{
			SlNo:          cleanString(v.SlNo),
			Name:          cleanString(v.Name),
			Alias:         cleanString(v.Alias),
			Active:        cleanString(v.Active),
			Parent:        cleanString(v.Parent),
			Address:       cleanString(v.Address),
			Country:       cleanString(v.Country),
			State:         cleanString(v.State),
			Pincode:       cleanString(v.Pincode),
			ContactPerson: cleanString(v.ContactPerson),
			Mobile:        cleanString(v.Phone),
			Email:         cleanString(v.Email),
			Pan:           cleanString(v.Pan),
			GstType:       cleanString(v.GstType),
			GstNo:         cleanString(v.GstNo),
			GstDetails:    cleanString(v.GstDetails),
		})
	}
	return vendors, nil
}

type billXML struct {
	TallyOrdID     string `xml:"TALLYORDID"`
	NxOrderID      string `xml:"NXORDERID"`
	TallyInvNo     string `xml:"TALLYINVNO"`
	BillDate       string `xml:"BILLDATE"`
	OpeningBalance string `xml:"OPENINGBALANCE"`
	ClosingBalance string `xml:"CLOSINGBALANCE"`
	CreditPeriod   string `xml:"CREDITPERIOD"`
}

type outstandingXML struct {
	CustomerName   string    `xml:"CUSTOMERNAME"`
	CreditLimit    string    `xml:"CREDITLIMIT"`
	ClosingBalance string    `xml:"CLOSINGBALANCE"`
	Bills          []billXML `xml:"BILLS"`
}

type outstandingEnvelope struct {
	Outstandings []outstandingXML `xml:"OUTSTANDING"`
}

// DecodeOutstandings parses the outstanding-receivables export, which returns
// bare OUTSTANDING fragments with nested BILLS.
func DecodeOutstandings(raw string) ([]models.OutstandingLedger, error) {
	wrapped := "<OUTSTANDINGS>" + sanitizeXML(raw) + "</OUTSTANDINGS>"
	var env outstandingEnvelope
	if err := xml.Unmarshal([]byte(wrapped), &env); err != nil {
		return nil, fmt.Errorf("decode outstandings: %w", err)
	}

	ledgers := make([]models.OutstandingLedger, 0, len(env.Outstandings))
	for _, o := range env.Outstandings {
		ledger := models.OutstandingLedger{
			CustomerName:   cleanString(o.CustomerName),
			CreditLimit:    parseFloat(o.CreditLimit),
			ClosingBalance: parseFloat(o.ClosingBalance),
		}
		for _, b := range o.Bills {
			creditPeriod := cleanString(b.CreditPeriod)
			if creditPeriod == "" {
				creditPeriod = "0"
			}
			ledger.Bills = append(ledger.Bills, models.Bill{
				TallyOrdID:     cleanString(b.TallyOrdID),
				NxOrderID:      cleanString(b.NxOrderID),
				TallyInvNo:     cleanString(b.TallyInvNo),
				BillDate:       cleanString(b.BillDate),
				OpeningBalance: parseFloat(b.OpeningBalance),
				ClosingBalance: parseFloat(b.ClosingBalance),
				CreditPeriod:   creditPeriod,
			})
		}
		ledgers = append(ledgers, ledger)
	}
	return ledgers, nil
}

type voucherXML struct {
	Date        string `xml:"DATE"`
	Ledger      string `xml:"LEDGER"`
	VoucherType string `xml:"VCHTYPE"`
	VoucherNo   string `xml:"VCHNO"`
	DebitAmt    string `xml:"DEBITAMT"`
	CreditAmt   string `xml:"CREDITAMT"`
}

type statementXML struct {
	Party          string       `xml:"PARTY"`
	Alias          string       `xml:"ALIAS"`
	OpeningBalance string       `xml:"OPENINGBALANCE"`
	ClosingBalance string       `xml:"CLOSINGBALANCE"`
	TotalDebitAmt  string       `xml:"TOTADEBITAMT"`
	TotalCreditAmt string       `xml:"TOTALCREDITAMT"`
	Vouchers       []voucherXML `xml:"LEDGERVOUCHERS"`
}

type statementsEnvelope struct {
	Statements []statementXML `xml:"LEDGERSTATEMENT"`
}

// DecodeStatements parses the ledger-statement export, which returns bare
// LEDGERSTATEMENT fragments with nested LEDGERVOUCHERS.
func DecodeStatements(raw string) ([]models.LedgerStatement, error) {
	wrapped := "<LEDGERSTATEMENTS>" + sanitizeXML(raw) + "</LEDGERSTATEMENTS>"
	var env statementsEnvelope
	if err := xml.Unmarshal([]byte(wrapped), &env); err != nil {
		return nil, fmt.Errorf("decode ledger statements: %w", err)
	}

	statements := make([]models.LedgerStatement, 0, len(env.Statements))
	for _, s := range env.Statements {
		statement := models.LedgerStatement{
			Party:             cleanString(s.Party),
			Alias:             cleanString(s.Alias),
			OpeningBalance:    parseFloat(s.OpeningBalance),
			ClosingBalance:    parseFloat(s.ClosingBalance),
			TotalDebitAmount:  parseFloat(s.TotalDebitAmt),
			TotalCreditAmount: parseFloat(s.TotalCreditAmt),
		}
		for _, v := range s.Vouchers {
			statement.Vouchers = append(statement.Vouchers, models.LedgerVoucher{
				Date:         cleanString(v.Date),
				Ledger:       cleanString(v.Ledger),
				VoucherType:  cleanString(v.VoucherType),
				VoucherNo:    cleanString(v.VoucherNo),
				DebitAmount:  parseFloat(v.DebitAmt),
				CreditAmount: parseFloat(v.CreditAmt),
			})
		}
		statements = append(statements, statement)
	}
	return statements, nil
}
