package docpdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrSelection marks a failed change detection. Selector never returns
	// it: the failure is reported as a warning and yields an empty selection.
	ErrSelection = errors.New("change detection failed")

	ErrInvalidTrigger = errors.New("invalid trigger")
	ErrInvalidScope   = errors.New("invalid scope")

	// ErrConversion marks a per-file conversion failure (non-zero exit of
	// the typesetting engine, browser failure, unreadable source).
	ErrConversion   = errors.New("conversion failed")
	ErrToolNotFound = errors.New("external tool not found")

	// Chrome engine errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Watermark errors.
	ErrInputNotFound    = errors.New("input document not found")
	ErrOutputWrite      = errors.New("failed to write output document")
	ErrInvalidWatermark = errors.New("invalid watermark")
	ErrUnknownPreset    = errors.New("unknown watermark preset")
	ErrReadPDF          = errors.New("failed to read PDF")
)
