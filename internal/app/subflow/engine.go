// Package subflow runs the guided partner-data collection that precedes a
// compatibility calculation.
package subflow

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/farum-oracle/internal/app/dateinput"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

const NamePrompt = "Who would you like to check your compatibility with? Tell me their name."

// Step is what the engine wants shown after consuming one input.
type Step struct {
	// Prompt is the assistant text to append. Empty when Ready.
	Prompt string
	// Invalid is set when a date could not be parsed and the same step repeats.
	Invalid bool
	// Ready means name and birth date are both captured and the calculation can run.
	Ready bool
}

// Engine is the Idle -> AwaitingPartnerName -> AwaitingPartnerBirthDate -> Idle
// state machine. It is not safe for concurrent use; the owning controller
// serializes access.
type Engine struct {
	state       domain.SubFlowState
	partnerName string
	partnerDate domain.BirthDate
	hasDate     bool
}

func NewEngine() *Engine {
	return &Engine{state: domain.SubFlowIdle}
}

func (e *Engine) State() domain.SubFlowState {
	return e.state
}

// Active reports whether free text should be routed to the engine.
func (e *Engine) Active() bool {
	return e.state != domain.SubFlowIdle
}

// Begin starts collection from the name step, dropping anything captured before.
func (e *Engine) Begin() string {
	e.reset()
	e.state = domain.SubFlowAwaitingPartnerName
	return NamePrompt
}

// Submit consumes one user input for the current step.
func (e *Engine) Submit(text string) Step {
	text = strings.TrimSpace(text)

	switch e.state {
	case domain.SubFlowAwaitingPartnerName:
		// Any shape is a name here, even something that looks like a date.
		e.partnerName = text
		e.state = domain.SubFlowAwaitingPartnerBirthDate
		return Step{Prompt: datePrompt(e.partnerName)}

	case domain.SubFlowAwaitingPartnerBirthDate:
		date, err := dateinput.Parse(text)
		if err != nil {
			return Step{Prompt: reprompt(e.partnerName), Invalid: true}
		}
		e.partnerDate = date
		e.hasDate = true
		e.state = domain.SubFlowIdle
		return Step{Ready: true}

	default:
		return Step{}
	}
}

// Retry moves back to the date step after a failed calculation. The partner
// name is kept so the user only resupplies the date.
func (e *Engine) Retry() string {
	e.state = domain.SubFlowAwaitingPartnerBirthDate
	e.hasDate = false
	e.partnerDate = domain.BirthDate{}
	return fmt.Sprintf("Send me %s's birth date again (%s) and I'll try once more.", e.partnerName, dateinput.Format)
}

// Complete forgets the partner once a report has been delivered.
func (e *Engine) Complete() {
	e.reset()
}

// Partner returns the captured partner data; ok is false until a date is known.
func (e *Engine) Partner() (name string, date domain.BirthDate, ok bool) {
	return e.partnerName, e.partnerDate, e.hasDate
}

func (e *Engine) reset() {
	e.state = domain.SubFlowIdle
	e.partnerName = ""
	e.partnerDate = domain.BirthDate{}
	e.hasDate = false
}

func datePrompt(name string) string {
	return fmt.Sprintf("Got it. What is %s's birth date? Please use the format %s.", name, dateinput.Format)
}

func reprompt(name string) string {
	return fmt.Sprintf("I couldn't read that date. Please send %s's birth date as %s, for example 1995-06-15.", name, dateinput.Format)
}
