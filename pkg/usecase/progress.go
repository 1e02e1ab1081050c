package usecase

import "github.com/pterm/pterm"

// ProgressEmitter receives fetch progress updates. Implementations include
// a pterm terminal bar for interactive runs and a no-op for scheduled ones.
type ProgressEmitter interface {
	Start(total int)
	Increment()
	Done()
}

type nopProgress struct{}

func (nopProgress) Start(int)  {}
func (nopProgress) Increment() {}
func (nopProgress) Done()      {}

// NopProgress returns an emitter that discards all updates
func NopProgress() ProgressEmitter {
	return nopProgress{}
}

// termProgress renders a terminal progress bar during the scorecard fetch
type termProgress struct {
	bar *pterm.ProgressbarPrinter
}

// TermProgress returns a terminal progress bar emitter
func TermProgress() ProgressEmitter {
	return &termProgress{}
}

func (p *termProgress) Start(total int) {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Fetching scorecards").
		Start()
	if err != nil {
		return
	}
	p.bar = bar
}

func (p *termProgress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *termProgress) Done() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
	}
}
