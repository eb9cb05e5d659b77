// Package printing renders the reconciliation document produced when a
// delivery is confirmed.
//
// ReceiptPrinter fills an html/template with the receive result, formatting
// money and quantities for the configured locale. The HTML variant prints
// itself when opened. PDF output goes through a PDFRenderer; ChromedpRenderer
// drives a local or remote headless Chrome.
//
//	printer, err := NewReceiptPrinter(cfg.Printing, renderer, logger)
//	if err != nil {
//	    return err
//	}
//	pdf, err := printer.PDF(ctx, result)
package printing
