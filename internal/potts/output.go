package potts

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"potts-ca/internal/fsutil"
)

// ResultsFileName is the per-run element membership log.
const ResultsFileName = "results.vizelements"

// CreateOutputFiles opens results.vizelements in the handler's directory,
// truncating any previous contents.
func (p *Population) CreateOutputFiles(h *fsutil.OutputFileHandler) error {
	if p.vizElements != nil {
		if err := p.CloseOutputFiles(); err != nil {
			return err
		}
	}
	w, err := h.OpenOutputFile(ResultsFileName, fsutil.Truncate)
	if err != nil {
		return err
	}
	p.vizElements = w
	return nil
}

// CloseOutputFiles closes the results file. Calling it again is a no-op.
func (p *Population) CloseOutputFiles() error {
	if p.vizElements == nil {
		return nil
	}
	err := p.vizElements.Close()
	p.vizElements = nil
	return err
}

// WriteResultsToFiles appends one line to results.vizelements:
//
//	<time>\t<n> <g0> ... <g(n-1)> <n> ... \n
//
// with one group per listed cell whose cell is alive and whose element is not
// deleted. Every token is followed by a single space.
func (p *Population) WriteResultsToFiles() error {
	if p.vizElements == nil {
		return ErrOutputNotOpen
	}
	if _, err := io.WriteString(p.vizElements, p.ResultsLine()); err != nil {
		return fmt.Errorf("write %s: %w", ResultsFileName, err)
	}
	return nil
}

// ResultsLine renders the line WriteResultsToFiles appends.
func (p *Population) ResultsLine() string {
	var b strings.Builder
	b.WriteString(formatTime(p.clock.Time()))
	b.WriteByte('\t')
	for _, h := range p.order {
		elem := p.cellElement[h]
		e := p.mesh.Element(elem)
		if e.IsDeleted() {
			continue
		}
		if c, ok := p.CellAt(elem); ok && c.IsDead() {
			continue
		}
		b.WriteString(strconv.Itoa(e.NumNodes()))
		b.WriteByte(' ')
		for i := 0; i < e.NumNodes(); i++ {
			b.WriteString(strconv.Itoa(e.NodeGlobalIndex(i)))
			b.WriteByte(' ')
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// formatTime matches the default floating-point stream formatting: six
// significant digits, shortest of fixed or exponent notation.
func formatTime(t float64) string {
	return strconv.FormatFloat(t, 'g', 6, 64)
}

// OutputParameters writes the Hamiltonian settings as tagged lines.
func (p *Population) OutputParameters(w io.Writer) error {
	prm := p.params
	lines := []struct {
		tag   string
		value string
	}{
		{"LambdaVolume", strconv.FormatFloat(prm.LambdaVolume, 'g', -1, 64)},
		{"TargetVolume", strconv.FormatFloat(prm.TargetVolume, 'g', -1, 64)},
		{"LambdaContact", strconv.FormatFloat(prm.LambdaContact, 'g', -1, 64)},
		{"Temperature", strconv.FormatFloat(prm.Temperature, 'g', -1, 64)},
		{"ReapEmptyElements", strconv.FormatBool(prm.ReapEmptyElements)},
	}
	var errs []error
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "\t\t<%s>%s</%s>\n", l.tag, l.value, l.tag); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
