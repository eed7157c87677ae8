package excel

// RawRowData represents a row of raw spreadsheet data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete dataset of one sheet or CSV file
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// RegressionColumns holds a numeric response and predictors extracted from ExcelData
type RegressionColumns struct {
	Response    string
	Predictors  []string
	Y           []float64
	X           [][]float64 // row-major, one slice per kept row
	DroppedRows []int       // 1-based data row numbers skipped for missing or non-numeric cells
}
