package tally

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgtechno/tallybridge/internal/models"
)

// DefaultCompany is the company book vouchers are imported into when no
// override is configured.
const DefaultCompany = "RG TECHNO INDUSTRIAL PRODUCTS PVT LTD(2022-23)"

// LedgerNames maps the logical ledger roles of an invoice to the account
// names used in the remote books.
type LedgerNames struct {
	Sales      string
	Discount   string
	Central    string
	State      string
	Interstate string
}

// ResolveLedgerNames fills each role from the settings map, falling back to
// the conventional account names where no row exists.
func ResolveLedgerNames(settings map[string]string) LedgerNames {
	pick := func(key, fallback string) string {
		if v, ok := settings[key]; ok && v != "" {
			return v
		}
		return fallback
	}
	return LedgerNames{
		Sales:      pick(models.LedgerNameSales, "Sales"),
		Discount:   pick(models.LedgerNameDiscount, "Discount"),
		Central:    pick(models.LedgerNameCentral, "CGST"),
		State:      pick(models.LedgerNameState, "SGST"),
		Interstate: pick(models.LedgerNameInterstate, "IGST"),
	}
}

// The voucher body is rendered with text/template rather than encoding/xml:
// the remote import requires literal "&#4; Not Applicable" entities that an
// XML encoder would escape.
var invoiceTemplate = template.Must(template.New("invoice").Parse(`<ENVELOPE>
    <HEADER>
        <TALLYREQUEST>Import Data</TALLYREQUEST>
    </HEADER>
    <BODY>
        <IMPORTDATA>
            <REQUESTDESC>
                <REPORTNAME>Vouchers</REPORTNAME>
                <STATICVARIABLES>
                    <SVCURRENTCOMPANY>{{.Company}}</SVCURRENTCOMPANY>
                </STATICVARIABLES>
            </REQUESTDESC>
            <REQUESTDATA>
                <TALLYMESSAGE xmlns:UDF="TallyUDF">
                    <VOUCHER VCHTYPE="Sales Order" ACTION="Create" OBJVIEW="Invoice Voucher View">
                        <ADDRESS.LIST TYPE="String">
                            <ADDRESS>{{.Street}}</ADDRESS>
                            <ADDRESS>{{.State}}</ADDRESS>
                            <ADDRESS>{{.Country}}</ADDRESS>
                        </ADDRESS.LIST>
                        <BASICBUYERADDRESS.LIST TYPE="String">
                            <BASICBUYERADDRESS>{{.Street}}</BASICBUYERADDRESS>
                            <BASICBUYERADDRESS>{{.State}}</BASICBUYERADDRESS>
                            <BASICBUYERADDRESS>{{.Country}}</BASICBUYERADDRESS>
                        </BASICBUYERADDRESS.LIST>
                        <DATE>{{.Date}}</DATE>
                        <GUID>{{.OrderNo}}</GUID>
                        <GSTREGISTRATIONTYPE>Regular</GSTREGISTRATIONTYPE>
                        <VATDEALERTYPE>Regular</VATDEALERTYPE>
                        <STATENAME>{{.State}}</STATENAME>
                        <COUNTRYOFRESIDENCE>{{.Country}}</COUNTRYOFRESIDENCE>
                        <PLACEOFSUPPLY>{{.State}}</PLACEOFSUPPLY>
                        <PARTYNAME>{{.CustomerName}}</PARTYNAME>
                        <CMPGSTIN>{{.CustomerGstNo}}</CMPGSTIN>
                        <VOUCHERTYPENAME>Sales Order</VOUCHERTYPENAME>
                        <PARTYLEDGERNAME>{{.CustomerName}}</PARTYLEDGERNAME>
                        <BASICBUYERNAME>{{.CustomerName}}</BASICBUYERNAME>
                        <CMPGSTREGISTRATIONTYPE>Regular</CMPGSTREGISTRATIONTYPE>
                        <VOUCHERNUMBER>{{.OrderNo}}</VOUCHERNUMBER>
                        <REFERENCE>{{.OrderNo}}</REFERENCE>
                        <PARTYMAILINGNAME>{{.CustomerEmail}}</PARTYMAILINGNAME>
                        <CONSIGNEEMAILINGNAME>{{.CustomerEmail}}</CONSIGNEEMAILINGNAME>
                        <CONSIGNEESTATENAME>{{.State}}</CONSIGNEESTATENAME>
                        <CMPGSTSTATE>{{.State}}</CMPGSTSTATE>
                        <CONSIGNEECOUNTRYNAME>{{.Country}}</CONSIGNEECOUNTRYNAME>
                        <BASICBASEPARTYNAME>{{.CustomerName}}</BASICBASEPARTYNAME>
                        <PERSISTEDVIEW>Invoice Voucher View</PERSISTEDVIEW>
                        <BUYERPINNUMBER>{{.Pincode}}</BUYERPINNUMBER>
                        <CONSIGNEEPINNUMBER>{{.Pincode}}</CONSIGNEEPINNUMBER>
                        <EFFECTIVEDATE>{{.Date}}</EFFECTIVEDATE>
                        <ISELIGIBLEFORITC>Yes</ISELIGIBLEFORITC>
                        <ISVATDUTYPAID>Yes</ISVATDUTYPAID>
{{- range .Lines}}
                        <ALLINVENTORYENTRIES.LIST>
                            <STOCKITEMNAME>{{.ItemName}}</STOCKITEMNAME>
                            <GSTOVRDNISREVCHARGEAPPL>&#4; Not Applicable</GSTOVRDNISREVCHARGEAPPL>
                            <GSTOVRDNTAXABILITY>Taxable</GSTOVRDNTAXABILITY>
                            <GSTSOURCETYPE>Stock Item</GSTSOURCETYPE>
                            <GSTITEMSOURCE>{{.ItemName}}</GSTITEMSOURCE>
                            <GSTOVRDNSTOREDNATURE/>
                            <GSTOVRDNTYPEOFSUPPLY>Goods</GSTOVRDNTYPEOFSUPPLY>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <RATE>{{.Rate}}/PCS</RATE>
                            <AMOUNT>{{.Amount}}</AMOUNT>
                            <ACTUALQTY>{{.Quantity}} PCS</ACTUALQTY>
                            <BILLEDQTY>{{.Quantity}} PCS</BILLEDQTY>
                            <BATCHALLOCATIONS.LIST>
                                <BATCHNAME>Primary Batch</BATCHNAME>
                                <INDENTNO>&#4; Not Applicable</INDENTNO>
                                <ORDERNO>{{$.OrderNo}}</ORDERNO>
                                <TRACKINGNUMBER>&#4; Not Applicable</TRACKINGNUMBER>
                                <AMOUNT>{{.Amount}}</AMOUNT>
                                <ACTUALQTY>{{.Quantity}}</ACTUALQTY>
                                <BILLEDQTY>{{.Quantity}}</BILLEDQTY>
                                <ORDERDUEDATE P="{{$.DueDate}}">{{$.DueDate}}</ORDERDUEDATE>
                            </BATCHALLOCATIONS.LIST>
                            <ACCOUNTINGALLOCATIONS.LIST>
                                <LEDGERNAME>{{$.Names.Sales}}</LEDGERNAME>
                                <GSTCLASS>&#4; Not Applicable</GSTCLASS>
                                <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                                <AMOUNT>{{.Amount}}</AMOUNT>
                            </ACCOUNTINGALLOCATIONS.LIST>
                            <DUTYHEADDETAILS.LIST></DUTYHEADDETAILS.LIST>
                            <RATEDETAILS.LIST>
                                <GSTRATEDUTYHEAD>CGST</GSTRATEDUTYHEAD>
                                <GSTRATEVALUATIONTYPE>Based on Value</GSTRATEVALUATIONTYPE>
                                <GSTRATE>{{.GstRate}}</GSTRATE>
                            </RATEDETAILS.LIST>
                            <RATEDETAILS.LIST>
                                <GSTRATEDUTYHEAD>SGST/UTGST</GSTRATEDUTYHEAD>
                                <GSTRATEVALUATIONTYPE>Based on Value</GSTRATEVALUATIONTYPE>
                                <GSTRATE>{{.GstRate}}</GSTRATE>
                            </RATEDETAILS.LIST>
                            <RATEDETAILS.LIST>
                                <GSTRATEDUTYHEAD>IGST</GSTRATEDUTYHEAD>
                                <GSTRATEVALUATIONTYPE>Based on Value</GSTRATEVALUATIONTYPE>
                                <GSTRATE>{{.GstRate}}</GSTRATE>
                            </RATEDETAILS.LIST>
                            <RATEDETAILS.LIST>
                                <GSTRATEDUTYHEAD>Cess</GSTRATEDUTYHEAD>
                                <GSTRATEVALUATIONTYPE>&#4; Not Applicable</GSTRATEVALUATIONTYPE>
                            </RATEDETAILS.LIST>
                            <RATEDETAILS.LIST>
                                <GSTRATEDUTYHEAD>State Cess</GSTRATEDUTYHEAD>
                                <GSTRATEVALUATIONTYPE>Based on Value</GSTRATEVALUATIONTYPE>
                            </RATEDETAILS.LIST>
                        </ALLINVENTORYENTRIES.LIST>
{{- end}}
                        <LEDGERENTRIES.LIST>
                            <LEDGERNAME>{{.CustomerName}}</LEDGERNAME>
                            <GSTCLASS>&#4; Not Applicable</GSTCLASS>
                            <ISDEEMEDPOSITIVE>Yes</ISDEEMEDPOSITIVE>
                            <LEDGERFROMITEM>No</LEDGERFROMITEM>
                            <REMOVEZEROENTRIES>No</REMOVEZEROENTRIES>
                            <ISPARTYLEDGER>Yes</ISPARTYLEDGER>
                            <ISLASTDEEMEDPOSITIVE>Yes</ISLASTDEEMEDPOSITIVE>
                            <AMOUNT>-{{.TotalPrice}}</AMOUNT>
                        </LEDGERENTRIES.LIST>
                        <LEDGERENTRIES.LIST>
                            <APPROPRIATEFOR>&#4; Not Applicable</APPROPRIATEFOR>
                            <ROUNDTYPE>&#4; Not Applicable</ROUNDTYPE>
                            <LEDGERNAME>{{.Names.Discount}}</LEDGERNAME>
                            <GSTCLASS>&#4; Not Applicable</GSTCLASS>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <AMOUNT>{{.DiscountAmount}}</AMOUNT>
                            <VATEXPAMOUNT>{{.DiscountAmount}}</VATEXPAMOUNT>
                        </LEDGERENTRIES.LIST>
{{- range .TaxLines}}
                        <LEDGERENTRIES.LIST>
                            <APPROPRIATEFOR>&#4; Not Applicable</APPROPRIATEFOR>
                            <ROUNDTYPE>&#4; Not Applicable</ROUNDTYPE>
                            <LEDGERNAME>{{.Ledger}}</LEDGERNAME>
                            <GSTCLASS>&#4; Not Applicable</GSTCLASS>
                            <ISDEEMEDPOSITIVE>No</ISDEEMEDPOSITIVE>
                            <AMOUNT>{{.Amount}}</AMOUNT>
                            <VATEXPAMOUNT>{{.Amount}}</VATEXPAMOUNT>
                        </LEDGERENTRIES.LIST>
{{- end}}
                    </VOUCHER>
                </TALLYMESSAGE>
            </REQUESTDATA>
        </IMPORTDATA>
    </BODY>
</ENVELOPE>
`))

type invoiceLine struct {
	ItemName string
	Rate     string
	Amount   string
	Quantity int
	GstRate  string
}

type taxLine struct {
	Ledger string
	Amount string
}

type invoiceData struct {
	Company        string
	OrderNo        string
	CustomerName   string
	CustomerEmail  string
	CustomerGstNo  string
	Street         string
	State          string
	Country        string
	Pincode        string
	Date           string
	DueDate        string
	TotalPrice     string
	DiscountAmount string
	Names          LedgerNames
	Lines          []invoiceLine
	TaxLines       []taxLine
}

// RenderInvoice builds the voucher-import envelope for a completed order.
// The tax split is decided by shipping state: intrastate orders carry 9%
// central plus 9% state tax, interstate orders carry 18% integrated tax,
// always computed on the order total.
func RenderInvoice(order models.Order, items []models.OrderItem, sellerState, company string, names LedgerNames, now time.Time) (string, error) {
	if company == "" {
		company = DefaultCompany
	}

	total := decimal.NewFromFloat(order.TotalPrice)
	discount := total.Mul(decimal.NewFromFloat(order.Discount)).Div(decimal.NewFromInt(100))
	discountAmount := "-" + discount.Abs().StringFixed(2)

	data := invoiceData{
		Company:        company,
		OrderNo:        order.OrderNo,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		CustomerGstNo:  order.CustomerGstNo,
		Street:         order.ShipStreet,
		State:          order.ShipState,
		Country:        order.ShipCountry,
		Pincode:        order.ShipPincode,
		Date:           now.Format("20060102"),
		DueDate:        now.Format("02-01-2006"),
		TotalPrice:     formatAmount(total),
		DiscountAmount: discountAmount,
		Names:          names,
	}

	for _, item := range items {
		price := decimal.NewFromFloat(item.SellingPrice)
		amount := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		data.Lines = append(data.Lines, invoiceLine{
			ItemName: item.ItemName,
			Rate:     formatAmount(price),
			Amount:   formatAmount(amount),
			Quantity: item.Quantity,
			GstRate:  formatAmount(decimal.NewFromFloat(item.GstRate)),
		})
	}

	if strings.EqualFold(strings.TrimSpace(sellerState), strings.TrimSpace(order.ShipState)) {
		half := total.Mul(decimal.NewFromFloat(0.09)).StringFixed(2)
		data.TaxLines = []taxLine{
			{Ledger: names.Central, Amount: half},
			{Ledger: names.State, Amount: half},
		}
	} else {
		full := total.Mul(decimal.NewFromFloat(0.18)).StringFixed(2)
		data.TaxLines = []taxLine{
			{Ledger: names.Interstate, Amount: full},
		}
	}

	var buf strings.Builder
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", order.OrderNo, err)
	}
	return buf.String(), nil
}

func formatAmount(d decimal.Decimal) string {
	return d.String()
}
