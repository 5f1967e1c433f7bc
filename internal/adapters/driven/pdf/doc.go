// Package pdf renders export layouts to PDF with github.com/jung-kurt/gofpdf.
//
// All measurements arrive in points, so documents are created in "pt" units
// and no conversion happens here. Text is translated to cp1252 for the core
// fonts (Helvetica, Times, Courier).
package pdf
