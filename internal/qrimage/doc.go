// Package qrimage is the QR-encoding collaborator used by the directive resolver.
//
// It turns a Request (data, pixel size, error-correction level, colors) into
// PNG bytes using github.com/skip2/go-qrcode. Symbol construction, error
// correction and rasterization all happen inside that library; this package
// only maps levels, interprets color strings and classifies failures.
//
// Each QR module is rendered as PixelSize x PixelSize pixels, with the
// standard four-module quiet zone unless the border is disabled.
package qrimage
