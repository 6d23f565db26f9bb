package extract

// PdfcpuInfo exposes pdfcpuInfo to the external test package.
var PdfcpuInfo = pdfcpuInfo
