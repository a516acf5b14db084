package compose

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docforge/internal/domain"
	"docforge/internal/imaging"
	"docforge/internal/locale"
	"docforge/internal/storage"
)

func newTestComposer(t *testing.T) (*Composer, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	acquirer := imaging.NewAcquirer(imaging.NewCache(1<<20), nil, 0, zerolog.Nop())
	return NewComposer(store, acquirer, locale.NewTable("USA"), "DPS-RKP-001", zerolog.Nop()), dir
}

func teacherRecord() domain.Record {
	return domain.Record{
		"record_id":    "T-1",
		"name":         "Dr. Priya Sharma",
		"country":      "India",
		"department":   "Mathematics",
		"position":     "Senior Teacher",
		"basic_salary": 75000.0,
		"pay_period":   "2024-03",
		"pay_date":     "2024-03-31",
		"valid_until":  "2025-03-31",
	}
}

func TestComposeSalarySlip(t *testing.T) {
	c, dir := newTestComposer(t)

	res, err := c.Compose(context.Background(), teacherRecord(), domain.TemplateSalarySlip)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "salary_slip_T-1_2024-03.pdf", res.Path)
	assert.Len(t, res.VerificationHash, 16)

	data, err := os.ReadFile(filepath.Join(dir, res.Path))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "artifact is not a PDF")
}

func TestComposeIDCard(t *testing.T) {
	c, dir := newTestComposer(t)

	res, err := c.Compose(context.Background(), teacherRecord(), domain.TemplateIDCard)
	require.NoError(t, err)

	assert.Equal(t, "id_card_T-1.png", res.Path)
	data, err := os.ReadFile(filepath.Join(dir, res.Path))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "artifact is not a PNG")
}

func TestComposeDeterministic(t *testing.T) {
	c, dir := newTestComposer(t)
	rec := teacherRecord()

	first, err := c.Compose(context.Background(), rec, domain.TemplateSalarySlip)
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(filepath.Join(dir, first.Path))
	require.NoError(t, err)

	second, err := c.Compose(context.Background(), rec, domain.TemplateSalarySlip)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(filepath.Join(dir, second.Path))
	require.NoError(t, err)

	assert.Equal(t, first.VerificationHash, second.VerificationHash)
	assert.Equal(t, first.Path, second.Path, "re-composing must overwrite, not fork, the artifact")
	assert.True(t, bytes.Equal(firstBytes, secondBytes), "identical input must yield identical bytes")
}

func TestComposeMissingFieldsValidation(t *testing.T) {
	c, _ := newTestComposer(t)
	rec := domain.Record{"record_id": "T-2", "country": "India"}

	_, err := c.Compose(context.Background(), rec, domain.TemplateIDCard)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "T-2", verr.RecordID)
	assert.Contains(t, verr.Missing, "name")
}

func TestComposeAllKinds(t *testing.T) {
	c, dir := newTestComposer(t)
	rec := teacherRecord()
	rec["program"] = "B.Sc. Computer Science"
	rec["academic_year"] = "2024-25"
	rec["fee_amount"] = 45000.0

	for _, kind := range domain.TemplateKinds {
		res, err := c.Compose(context.Background(), rec, kind)
		require.NoError(t, err, "kind %s", kind)
		assert.True(t, res.Success, "kind %s", kind)
		_, statErr := os.Stat(filepath.Join(dir, res.Path))
		assert.NoError(t, statErr, "artifact missing for %s", kind)
	}
}

func TestComposeSalaryBreakdown(t *testing.T) {
	table := locale.NewTable("USA")
	rec := teacherRecord()

	b := calculateSalary(rec, table.Lookup("India"))

	assert.InDelta(t, 75000+30000+18750+2000+1500, b.TotalEarnings, 0.01)
	assert.InDelta(t, b.TotalEarnings*0.10, b.Deductions[0].Amount, 0.01) // income tax
	assert.InDelta(t, 75000*0.12, b.Deductions[1].Amount, 0.01)           // provident fund
	assert.Zero(t, b.Deductions[2].Amount, "ESI must not apply above the ceiling")
	assert.InDelta(t, b.TotalEarnings-b.TotalDeductions, b.NetPay, 0.01)
}

func TestComposeCancelledContext(t *testing.T) {
	c, _ := newTestComposer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Compose(ctx, teacherRecord(), domain.TemplateIDCard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
