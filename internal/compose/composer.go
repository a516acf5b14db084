// Package compose turns validated records into rendered, persisted documents.
// Each template kind owns a fixed layout drawn onto a Canvas; the composer
// wires validation, the verification payload, imagery, and artifact storage
// around those layouts.
package compose

import (
	"bytes"
	"context"
	"fmt"

	"docforge/internal/domain"
	"docforge/internal/imaging"
	"docforge/internal/infra"
	"docforge/internal/locale"
	"docforge/internal/render"
	"docforge/internal/storage"
	"docforge/internal/verify"
)

// ID card raster geometry, standard CR80-at-300dpi proportions.
const (
	cardWidth   = 856
	cardHeight  = 540
	photoWidth  = 150
	photoHeight = 150
)

// Composer renders one document per (record, template kind) pair.
type Composer struct {
	store       *storage.FileStore
	images      *imaging.Acquirer
	locales     *locale.Table
	institution string
	log         infra.Logger
}

func NewComposer(store *storage.FileStore, images *imaging.Acquirer, locales *locale.Table, institution string, log infra.Logger) *Composer {
	if institution == "" {
		institution = "DOCFORGE-001"
	}
	return &Composer{
		store:       store,
		images:      images,
		locales:     locales,
		institution: institution,
		log:         log,
	}
}

// docContext is everything a layout needs to draw.
type docContext struct {
	rec     domain.Record
	info    locale.Info
	locales *locale.Table
	payload verify.Payload
	photo   []byte
}

// Compose validates the record for the kind, derives the security payload,
// acquires imagery when the layout embeds it, draws, and persists. The same
// record and kind always produce byte-identical artifacts at the same path.
func (c *Composer) Compose(ctx context.Context, rec domain.Record, kind domain.TemplateKind) (domain.DocumentResult, error) {
	res := domain.DocumentResult{RecordID: rec.ID(), TemplateKind: kind}

	if missing := rec.MissingFields(kind.RequiredFields()); len(missing) > 0 {
		return res, &domain.ValidationError{RecordID: rec.ID(), Kind: kind, Missing: missing}
	}

	dc := docContext{
		rec:     rec,
		info:    c.locales.Lookup(rec.String(domain.FieldCountry)),
		locales: c.locales,
		payload: verify.Hash(rec, c.institution),
	}

	if kind.NeedsPhoto() {
		photo, err := c.images.Acquire(ctx, imaging.Request{
			SubjectID: rec.ID(),
			Kind:      "photo",
			Width:     photoWidth,
			Height:    photoHeight,
		})
		if err != nil {
			// Acquire is total over its sources; only a dead context gets here.
			return res, err
		}
		dc.photo = photo
	}

	canvas := canvasFor(kind)
	if err := drawDocument(canvas, kind, dc); err != nil {
		return res, &domain.RenderError{Kind: kind, Err: err}
	}

	var buf bytes.Buffer
	if err := canvas.Export(&buf); err != nil {
		return res, &domain.RenderError{Kind: kind, Err: err}
	}

	key, err := c.store.Write(ctx, kind.ArtifactName(rec), buf.Bytes())
	if err != nil {
		return res, fmt.Errorf("persist %s for %s: %w", kind, rec.ID(), err)
	}

	c.log.Info().
		Str("record_id", rec.ID()).
		Str("kind", string(kind)).
		Str("path", key).
		Int("bytes", buf.Len()).
		Msg("document composed")

	res.Path = key
	res.VerificationHash = dc.payload.Digest
	res.Success = true
	return res, nil
}

func canvasFor(kind domain.TemplateKind) render.Canvas {
	if kind == domain.TemplateIDCard {
		return render.NewImageCanvas(cardWidth, cardHeight)
	}
	return render.NewPDFCanvas()
}

func drawDocument(canvas render.Canvas, kind domain.TemplateKind, dc docContext) error {
	switch kind {
	case domain.TemplateIDCard:
		return drawIDCard(canvas, dc)
	case domain.TemplateSalarySlip:
		return drawSalarySlip(canvas, dc)
	case domain.TemplateReceipt:
		return drawReceipt(canvas, dc)
	case domain.TemplateTranscript:
		return drawTranscript(canvas, dc)
	case domain.TemplateEnrollmentCert:
		return drawEnrollmentCertificate(canvas, dc)
	default:
		return fmt.Errorf("no layout for template kind %q", kind)
	}
}
