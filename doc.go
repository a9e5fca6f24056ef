// Package docpdf selects changed documentation files, converts them to PDF
// and stamps a translucent text watermark onto the result.
//
// # Quick Start
//
// Select the Markdown files changed by the last commit, convert them with
// pandoc and watermark the output:
//
//	sel := docpdf.NewSelector()
//	files, err := sel.Select(ctx, docpdf.SelectRequest{Trigger: docpdf.TriggerAutomatic})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv := docpdf.NewPandocConverter(docpdf.DefaultPandocOptions())
//	for _, r := range docpdf.ConvertBatch(ctx, conv, files, docpdf.BatchOptions{Workers: 1}) {
//	    if r.Err != nil {
//	        log.Printf("FAILED %s: %v", r.InputPath, r.Err)
//	    }
//	}
//
//	cfg, _ := docpdf.Preset("classic")
//	wm := docpdf.NewWatermarker(cfg)
//	err = wm.Apply(ctx, "doc/guide.pdf", "doc/guide.pdf", "CONFIDENTIAL")
//
// # Change Selection
//
// An automatic trigger diffs BaseRev..HeadRev (default HEAD~1..HEAD) under
// the document root. A failing diff is reported to Selector.Warn and yields
// an empty selection. Manual triggers take a scope: all walks the document
// root, specific splits a comma-separated list, changed diffs like an
// automatic run. Only paths that exist as regular files are returned.
//
// # Conversion Engines
//
// PandocConverter runs:
//
//	pandoc <src> -o <dst> --pdf-engine=xelatex -V geometry:margin=1in -V fontsize=11pt --toc --toc-depth=3
//
// ChromeConverter renders the document with goldmark and prints it with
// headless Chrome (go-rod), which needs no TeX installation. Set
// ROD_NO_SANDBOX=1 in containers and ROD_BROWSER_BIN to use an installed
// browser.
//
// # Watermarks
//
// Per page, the font size is min(width/FontDivisor, MaxFontSize) unless
// FontSize is fixed. The frame is translated to the page centre and rotated
// by Angle; centered mode draws one instance, tiled mode (2R+1)^2 instances.
// Stamps are drawn over the original content with pdfcpu, and the output
// replaces its target only once completely written. See Preset for the
// built-in variants.
package docpdf
