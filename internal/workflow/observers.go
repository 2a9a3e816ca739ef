package workflow

import "github.com/ariel-frischer/autochangelog/internal/progress"

// ProgressController shows each step on a progress display.
// A nil display makes every method a no-op.
type ProgressController struct {
	display *progress.Display
}

// NewProgressController creates a new ProgressController with the given display.
func NewProgressController(display *progress.Display) *ProgressController {
	return &ProgressController{display: display}
}

// StepStarted implements Observer.
func (p *ProgressController) StepStarted(step Step) {
	if p.display == nil {
		return
	}
	p.display.StartStep(string(step))
}

// StepFinished implements Observer.
func (p *ProgressController) StepFinished(_ Step, err error) {
	if p.display == nil {
		return
	}
	if err != nil {
		p.display.FailStep(err)
		return
	}
	p.display.CompleteStep()
}

// Observers fans step events out to several observers in order.
type Observers []Observer

// StepStarted implements Observer.
func (o Observers) StepStarted(step Step) {
	for _, obs := range o {
		obs.StepStarted(step)
	}
}

// StepFinished implements Observer.
func (o Observers) StepFinished(step Step, err error) {
	for _, obs := range o {
		obs.StepFinished(step, err)
	}
}
