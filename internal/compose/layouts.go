package compose

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/google/uuid"

	"docforge/internal/domain"
	"docforge/internal/render"
)

var (
	navy       = color.RGBA{R: 30, G: 58, B: 138, A: 255}
	skyBlue    = color.RGBA{R: 191, G: 219, B: 254, A: 255}
	ink        = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	slate      = color.RGBA{R: 100, G: 116, B: 139, A: 255}
	alertRed   = color.RGBA{R: 185, G: 28, B: 28, A: 255}
	headerFill = color.RGBA{R: 226, G: 232, B: 240, A: 255}
	faintGray  = color.RGBA{R: 128, G: 128, B: 128, A: 26}
	white      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// drawIDCard lays out the raster identity card: gradient band, photo, holder
// details, security watermark, QR, and a bar pattern encoding the record id.
func drawIDCard(c render.Canvas, dc docContext) error {
	w, h := c.Size()

	c.Gradient(0, 0, w, h, white, skyBlue)
	c.FillRect(0, 0, w, 110, navy)
	c.Text(220, 60, institutionName(dc), render.TextStyle{Size: 30, Color: white, Bold: true})
	c.Text(220, 92, dc.info.Country, render.TextStyle{Size: 15, Color: skyBlue})

	// Logo block: monogram on a flat panel.
	c.FillRect(50, 25, 130, 65, white)
	c.Text(115, 70, monogram(institutionName(dc)), render.TextStyle{Size: 34, Color: navy, Bold: true, Align: render.AlignCenter})

	// Holder photo with a hairline frame.
	if dc.photo != nil {
		if err := c.Image(50, 140, photoWidth, photoHeight, dc.photo); err != nil {
			return fmt.Errorf("place photo: %w", err)
		}
	}
	c.StrokeRect(50, 140, photoWidth, photoHeight, 2, navy)

	infoX, infoY := 230.0, 165.0
	c.Text(infoX, infoY, "ID: "+dc.rec.ID(), render.TextStyle{Size: 18, Color: ink, Bold: true})
	c.Text(infoX, infoY+34, dc.rec.String(domain.FieldName), render.TextStyle{Size: 24, Color: ink, Bold: true})
	if dept := dc.rec.String(domain.FieldDepartment); dept != "" {
		c.Text(infoX, infoY+64, "Dept: "+dept, render.TextStyle{Size: 15, Color: slate})
	}
	if pos := dc.rec.String(domain.FieldPosition); pos != "" {
		c.Text(infoX, infoY+88, "Designation: "+pos, render.TextStyle{Size: 15, Color: slate})
	}
	if until := dc.rec.String(domain.FieldValidUntil); until != "" {
		c.Text(infoX, infoY+115, "Valid Until: "+until, render.TextStyle{Size: 15, Color: alertRed, Bold: true})
	}

	c.Watermark("AUTHENTIC", faintGray)

	if err := c.QR(w-156, h-160, 120, dc.payload.Verification); err != nil {
		return err
	}
	drawBarPattern(c, 50, h-90, dc.rec.ID())
	c.Text(50, h-25, "Verification: "+dc.payload.Digest, render.TextStyle{Size: 13, Color: slate})

	// Security strip along the right edge.
	c.FillRect(w-16, 0, 16, h, navy)
	return nil
}

// drawBarPattern paints the simple alternating bar code used on cards.
func drawBarPattern(c render.Canvas, x, y float64, data string) {
	for i := range data {
		if i%2 == 0 {
			c.FillRect(x, y, 5, 40, ink)
		}
		x += 8
	}
}

func drawSalarySlip(c render.Canvas, dc docContext) error {
	w, _ := c.Size()
	period := dc.rec.String(domain.FieldPayPeriod)

	c.Gradient(0, 0, w, 26, navy, skyBlue)
	c.Text(w/2, 16, strings.ToUpper(institutionName(dc)), render.TextStyle{Size: 16, Color: white, Bold: true, Align: render.AlignCenter})
	c.Text(w/2, 36, "Salary Slip - "+period, render.TextStyle{Size: 13, Color: ink, Bold: true, Align: render.AlignCenter})

	c.Table(15, 44, []float64{35, 55, 35, 55}, [][]string{
		{"Employee Name:", dc.rec.String(domain.FieldName), "Employee ID:", dc.rec.ID()},
		{"Designation:", dc.rec.String(domain.FieldPosition), "Department:", dc.rec.String(domain.FieldDepartment)},
		{"Pay Period:", period, "Pay Date:", dc.rec.String(domain.FieldPayDate)},
	}, render.TableStyle{TextSize: 9, RowHeight: 8, Border: ink, Text: ink})

	breakdown := calculateSalary(dc.rec, dc.info)
	money := func(amount float64) string {
		return dc.locales.FormatMoney(dc.rec.String(domain.FieldCountry), amount)
	}

	rows := [][]string{{"Description", "Amount (" + dc.info.Currency + ")"}}
	rows = append(rows, []string{"EARNINGS", ""})
	for _, line := range breakdown.Earnings {
		rows = append(rows, []string{line.Label, money(line.Amount)})
	}
	rows = append(rows, []string{"Total Earnings", money(breakdown.TotalEarnings)})
	rows = append(rows, []string{"DEDUCTIONS", ""})
	for _, line := range breakdown.Deductions {
		rows = append(rows, []string{line.Label, money(line.Amount)})
	}
	rows = append(rows, []string{"Total Deductions", money(breakdown.TotalDeductions)})
	rows = append(rows, []string{"NET PAY", money(breakdown.NetPay)})

	c.Table(15, 78, []float64{110, 70}, rows, render.TableStyle{
		TextSize:   9,
		RowHeight:  8,
		HeaderFill: headerFill,
		Border:     ink,
		Text:       ink,
	})

	c.Watermark("ORIGINAL", faintGray)
	return drawVerificationFooter(c, dc)
}

func drawReceipt(c render.Canvas, dc docContext) error {
	w, _ := c.Size()
	amount, _ := dc.rec.Number(domain.FieldFeeAmount)
	money := dc.locales.FormatMoney(dc.rec.String(domain.FieldCountry), amount)

	c.Gradient(0, 0, w, 26, navy, skyBlue)
	c.Text(w/2, 16, strings.ToUpper(institutionName(dc)), render.TextStyle{Size: 16, Color: white, Bold: true, Align: render.AlignCenter})
	c.Text(w/2, 36, "Fee Payment Receipt", render.TextStyle{Size: 13, Color: ink, Bold: true, Align: render.AlignCenter})

	c.Table(15, 44, []float64{45, 135}, [][]string{
		{"Receipt No:", receiptNumber(dc.rec)},
		{"Received From:", dc.rec.String(domain.FieldName)},
		{"Record ID:", dc.rec.ID()},
	}, render.TableStyle{TextSize: 9, RowHeight: 8, Border: ink, Text: ink})

	c.Table(15, 78, []float64{110, 70}, [][]string{
		{"Description", "Amount (" + dc.info.Currency + ")"},
		{"Fee Amount", money},
		{"Total Paid", money},
	}, render.TableStyle{TextSize: 9, RowHeight: 8, HeaderFill: headerFill, Border: ink, Text: ink})

	c.Text(15, 112, "Payment received in full. This receipt is system generated.", render.TextStyle{Size: 9, Color: slate})

	c.Watermark("PAID", faintGray)
	return drawVerificationFooter(c, dc)
}

func drawTranscript(c render.Canvas, dc docContext) error {
	w, _ := c.Size()

	c.Gradient(0, 0, w, 26, navy, skyBlue)
	c.Text(w/2, 16, strings.ToUpper(institutionName(dc)), render.TextStyle{Size: 16, Color: white, Bold: true, Align: render.AlignCenter})
	c.Text(w/2, 36, "Official Academic Transcript", render.TextStyle{Size: 13, Color: ink, Bold: true, Align: render.AlignCenter})

	c.Table(15, 44, []float64{40, 140}, [][]string{
		{"Student Name:", dc.rec.String(domain.FieldName)},
		{"Student ID:", dc.rec.ID()},
		{"Program:", dc.rec.String(domain.FieldProgram)},
		{"Academic Year:", dc.rec.String(domain.FieldAcademicYear)},
	}, render.TableStyle{TextSize: 9, RowHeight: 8, Border: ink, Text: ink})

	courses, gpa := courseRows(dc.rec)
	rows := append([][]string{{"Code", "Course Title", "Credits", "Grade"}}, courses...)
	c.Table(15, 84, []float64{25, 100, 25, 30}, rows, render.TableStyle{
		TextSize:   9,
		RowHeight:  8,
		HeaderFill: headerFill,
		Border:     ink,
		Text:       ink,
	})

	gpaY := 84 + float64(len(rows)+1)*8
	c.Text(15, gpaY, "Cumulative GPA: "+gpa, render.TextStyle{Size: 11, Color: ink, Bold: true})
	c.Text(15, gpaY+8, "Grading Scale: A (9-10)  B (7-8.9)  C (5-6.9)  D (4-4.9)  F (below 4)", render.TextStyle{Size: 8, Color: slate})

	c.Watermark("OFFICIAL", faintGray)
	return drawVerificationFooter(c, dc)
}

func drawEnrollmentCertificate(c render.Canvas, dc docContext) error {
	w, h := c.Size()

	c.StrokeRect(10, 10, w-20, h-20, 1, navy)
	c.Gradient(10, 10, w-20, 24, navy, skyBlue)
	c.Text(w/2, 26, strings.ToUpper(institutionName(dc)), render.TextStyle{Size: 16, Color: white, Bold: true, Align: render.AlignCenter})
	c.Text(w/2, 60, "CERTIFICATE OF ENROLLMENT", render.TextStyle{Size: 15, Color: navy, Bold: true, Align: render.AlignCenter})

	lines := []string{
		"This is to certify that",
		dc.rec.String(domain.FieldName) + " (" + dc.rec.ID() + ")",
		"is a bona fide student enrolled in",
		dc.rec.String(domain.FieldProgram),
	}
	if year := dc.rec.String(domain.FieldAcademicYear); year != "" {
		lines = append(lines, "for the academic year "+year+".")
	}
	y := 90.0
	for i, line := range lines {
		style := render.TextStyle{Size: 11, Color: ink, Align: render.AlignCenter}
		if i == 1 || i == 3 {
			style.Bold = true
			style.Size = 13
		}
		c.Text(w/2, y, line, style)
		y += 12
	}
	c.Text(w/2, y+10, "This certificate is issued for official purposes on request of the student.", render.TextStyle{Size: 9, Color: slate, Align: render.AlignCenter})

	c.Watermark("ENROLLED", faintGray)
	return drawVerificationFooter(c, dc)
}

// drawVerificationFooter stamps the digest and QR in the page footer. Shared
// by every PDF layout.
func drawVerificationFooter(c render.Canvas, dc docContext) error {
	w, h := c.Size()
	c.Line(15, h-40, w-15, h-40, 0.3, slate)
	c.Text(15, h-32, "Verification: "+dc.payload.Digest, render.TextStyle{Size: 8, Color: slate})
	c.Text(15, h-26, "Scan the QR code to verify this document.", render.TextStyle{Size: 8, Color: slate})
	return c.QR(w-45, h-48, 30, dc.payload.Verification)
}

func institutionName(dc docContext) string {
	if inst := dc.rec.String(domain.FieldInstitution); inst != "" {
		return inst
	}
	return "Delhi Public School"
}

func monogram(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// receiptNumber uses the record's own number when present; otherwise a
// name-based UUID so re-issuing the receipt yields the same number.
func receiptNumber(rec domain.Record) string {
	if no := rec.String(domain.FieldReceiptNo); no != "" {
		return no
	}
	return "RCP-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(rec.ID())).String()[:8]
}

// courseRows extracts the course listing a transcript shows. Records may
// carry a "courses" list of {code, title, credits, grade}; without one a
// fixed program core is shown.
func courseRows(rec domain.Record) ([][]string, string) {
	raw, ok := rec["courses"].([]any)
	if !ok || len(raw) == 0 {
		return [][]string{
			{"CS101", "Introduction to Programming", "4", "A"},
			{"CS201", "Data Structures and Algorithms", "4", "A"},
			{"CS301", "Database Management Systems", "3", "B"},
			{"CS401", "Machine Learning", "4", "A"},
		}, gpaText(rec, "8.9/10")
	}
	rows := make([][]string, 0, len(raw))
	for _, entry := range raw {
		course, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		get := func(key string) string { return domain.Record(course).String(key) }
		rows = append(rows, []string{get("code"), get("title"), get("credits"), get("grade")})
	}
	return rows, gpaText(rec, "")
}

func gpaText(rec domain.Record, fallback string) string {
	if gpa := rec.String("gpa"); gpa != "" {
		return gpa
	}
	return fallback
}
