package compose

import (
	"docforge/internal/domain"
	"docforge/internal/locale"
)

// Fixed monthly allowances applied on top of basic salary.
const (
	hraRate            = 0.40
	daRate             = 0.25
	transportAllowance = 2000
	medicalAllowance   = 1500

	// ESI applies only up to this gross earnings ceiling.
	esiCeiling = 21000
)

type salaryLine struct {
	Label  string
	Amount float64
}

type salaryBreakdown struct {
	Earnings        []salaryLine
	Deductions      []salaryLine
	TotalEarnings   float64
	TotalDeductions float64
	NetPay          float64
}

// calculateSalary expands basic salary into the full earnings/deductions
// breakdown using the country's payroll rates.
func calculateSalary(rec domain.Record, info locale.Info) salaryBreakdown {
	basic, _ := rec.Number(domain.FieldBasicSalary)

	hra := basic * hraRate
	da := basic * daRate
	earnings := []salaryLine{
		{"Basic Salary", basic},
		{"House Rent Allowance", hra},
		{"Dearness Allowance", da},
		{"Transport Allowance", transportAllowance},
		{"Medical Allowance", medicalAllowance},
	}
	total := basic + hra + da + transportAllowance + medicalAllowance

	tax := total * info.TaxRate
	pf := basic * info.PFRate
	esi := 0.0
	if total <= esiCeiling {
		esi = total * info.ESIRate
	}
	deductions := []salaryLine{
		{"Income Tax", tax},
		{"Provident Fund", pf},
		{"ESI", esi},
		{"Professional Tax", info.ProfessionalTax},
	}
	totalDeductions := tax + pf + esi + info.ProfessionalTax

	return salaryBreakdown{
		Earnings:        earnings,
		Deductions:      deductions,
		TotalEarnings:   total,
		TotalDeductions: totalDeductions,
		NetPay:          total - totalDeductions,
	}
}
