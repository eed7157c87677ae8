package excel

import (
	"fmt"

	"gopower/domain/diagnostics"
	"gopower/domain/power"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Workbook collects result tables into an xlsx file
type Workbook struct {
	f      *excelize.File
	sheets int
}

// NewWorkbook creates an empty workbook
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

func (w *Workbook) addSheet(name string, header []interface{}, rows [][]interface{}) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	if err := w.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, name, err)
		}
	}
	if w.sheets == 0 {
		if err := w.f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		if idx, err := w.f.GetSheetIndex(name); err == nil {
			w.f.SetActiveSheet(idx)
		}
	}
	w.sheets++
	return nil
}

// AddPowerResult writes one solved analysis as a parameter/value table
func (w *Workbook) AddPowerResult(r *power.Result) error {
	rows := [][]interface{}{
		{"u", r.U},
		{"v", r.V},
		{"f2", r.F2},
		{"sig_level", r.SigLevel},
		{"power", r.Power},
		{"num_obs", r.NumObs},
		{"solved_for", r.Target.Symbol()},
	}
	return w.addSheet("power", []interface{}{"parameter", "value"}, rows)
}

// AddCurve writes a power curve, one grid point per row
func (w *Workbook) AddCurve(c *power.Curve) error {
	rows := make([][]interface{}, len(c.Points))
	for i, pt := range c.Points {
		rows[i] = []interface{}{pt.Value, pt.Power, pt.NumObs}
	}
	return w.addSheet("curve", []interface{}{c.Sweep.Symbol(), "power", "num_obs"}, rows)
}

// AddDiagnostics writes the per-observation panel data and the Q-Q pairs
func (w *Workbook) AddDiagnostics(rep *diagnostics.Report) error {
	obs := make([][]interface{}, len(rep.Observations))
	for i, o := range rep.Observations {
		obs[i] = []interface{}{o.Index, o.Fitted, o.Residual, o.Studentized, o.ScaleLocation, o.Leverage, o.CooksDistance}
	}
	header := []interface{}{"obs", "predicted_values", "residuals", "studentized", "std_resid", "leverage", "cooks_d"}
	if err := w.addSheet("diagnostics", header, obs); err != nil {
		return err
	}

	qq := make([][]interface{}, len(rep.QQ))
	for i, pt := range rep.QQ {
		qq[i] = []interface{}{pt.Theoretical, pt.Sample, rep.QQLine.At(pt.Theoretical)}
	}
	return w.addSheet("qq", []interface{}{"theoretical", "sample", "reference"}, qq)
}

// SaveAs writes the workbook to path
func (w *Workbook) SaveAs(path string) error {
	return w.f.SaveAs(path)
}

// Close releases resources held by the workbook
func (w *Workbook) Close() error {
	return w.f.Close()
}
