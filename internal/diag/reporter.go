package diag

// Reporter is the minimal sink contract phases report diagnostics through.
type Reporter interface {
	Report(d *Diagnostic)
}

// BagReporter adapts a *Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag == nil || d == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops everything; useful in tests that only care about values.
type NopReporter struct{}

func (NopReporter) Report(*Diagnostic) {}
