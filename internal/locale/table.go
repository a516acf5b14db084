// Package locale provides the country lookup tables the composer consumes:
// currency presentation, language tags for number formatting, and the payroll
// tax rates used by salary documents.
package locale

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Info carries the per-country configuration for document rendering.
type Info struct {
	Country  string
	ISO      string
	Tag      language.Tag
	Currency string
	Symbol   string

	// Payroll rates applied by the salary slip layout.
	TaxRate         float64
	PFRate          float64
	ESIRate         float64
	ProfessionalTax float64
}

// Table resolves country identifiers (names or ISO codes) to locale Info,
// falling back to a configured default for unknown countries.
type Table struct {
	entries  map[string]Info
	fallback string
}

var builtin = []Info{
	{Country: "India", ISO: "IN", Tag: language.MustParse("en-IN"), Currency: "INR", Symbol: "₹", TaxRate: 0.10, PFRate: 0.12, ESIRate: 0.0175, ProfessionalTax: 200},
	{Country: "USA", ISO: "US", Tag: language.MustParse("en-US"), Currency: "USD", Symbol: "$", TaxRate: 0.22, PFRate: 0.062, ESIRate: 0, ProfessionalTax: 0},
	{Country: "UK", ISO: "GB", Tag: language.MustParse("en-GB"), Currency: "GBP", Symbol: "£", TaxRate: 0.20, PFRate: 0.12, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Canada", ISO: "CA", Tag: language.MustParse("en-CA"), Currency: "CAD", Symbol: "CAD $", TaxRate: 0.20, PFRate: 0.0595, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Australia", ISO: "AU", Tag: language.MustParse("en-AU"), Currency: "AUD", Symbol: "AUD $", TaxRate: 0.19, PFRate: 0.11, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Singapore", ISO: "SG", Tag: language.MustParse("en-SG"), Currency: "SGD", Symbol: "SGD $", TaxRate: 0.15, PFRate: 0.20, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Germany", ISO: "DE", Tag: language.MustParse("de-DE"), Currency: "EUR", Symbol: "€", TaxRate: 0.30, PFRate: 0.093, ESIRate: 0, ProfessionalTax: 0},
	{Country: "France", ISO: "FR", Tag: language.MustParse("fr-FR"), Currency: "EUR", Symbol: "€", TaxRate: 0.28, PFRate: 0.069, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Japan", ISO: "JP", Tag: language.MustParse("ja-JP"), Currency: "JPY", Symbol: "¥", TaxRate: 0.23, PFRate: 0.0915, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Brazil", ISO: "BR", Tag: language.MustParse("pt-BR"), Currency: "BRL", Symbol: "R$", TaxRate: 0.22, PFRate: 0.08, ESIRate: 0, ProfessionalTax: 0},
	{Country: "Philippines", ISO: "PH", Tag: language.MustParse("en-PH"), Currency: "PHP", Symbol: "₱", TaxRate: 0.15, PFRate: 0.045, ESIRate: 0, ProfessionalTax: 0},
	{Country: "South Africa", ISO: "ZA", Tag: language.MustParse("en-ZA"), Currency: "ZAR", Symbol: "R", TaxRate: 0.18, PFRate: 0.075, ESIRate: 0, ProfessionalTax: 0},
}

// NewTable builds a table with the built-in country set. The fallback names
// the country used for unknown inputs; when it does not resolve, USA is used.
func NewTable(fallback string) *Table {
	entries := make(map[string]Info, len(builtin)*2)
	for _, info := range builtin {
		entries[normalize(info.Country)] = info
		entries[normalize(info.ISO)] = info
	}
	t := &Table{entries: entries, fallback: normalize(fallback)}
	if _, ok := entries[t.fallback]; !ok {
		t.fallback = normalize("USA")
	}
	return t
}

// Put registers or overrides a country entry. Intended for host applications
// supplying their own tax tables.
func (t *Table) Put(info Info) {
	t.entries[normalize(info.Country)] = info
	if info.ISO != "" {
		t.entries[normalize(info.ISO)] = info
	}
}

// Lookup resolves a country name or ISO code, falling back to the default
// locale rather than failing.
func (t *Table) Lookup(country string) Info {
	if info, ok := t.entries[normalize(country)]; ok {
		return info
	}
	return t.entries[t.fallback]
}

// FormatMoney renders an amount with the country's currency symbol and
// locale-aware digit grouping.
func (t *Table) FormatMoney(country string, amount float64) string {
	info := t.Lookup(country)
	p := message.NewPrinter(info.Tag)
	return info.Symbol + p.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate renders a date in the long form used across document footers.
func (t *Table) FormatDate(d time.Time) string {
	return d.Format("January 2, 2006")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
