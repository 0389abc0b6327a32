package prompt

import "fmt"

// Scripted is a Prompter that replays pre-recorded answers in order,
// for exercising the core pipeline without a controlling terminal.
type Scripted struct {
	Confirms []bool
	Prompts  []string
	Selects  []int

	confirmIdx int
	promptIdx  int
	selectIdx  int

	// Log records every question asked, in order, for assertions.
	Log []string
}

// NewScripted returns a Scripted prompter with no recorded answers; set
// the Confirms, Prompts and Selects fields directly before use.
func NewScripted() *Scripted {
	return &Scripted{}
}

func (s *Scripted) Confirm(message string) (bool, error) {
	s.Log = append(s.Log, "confirm: "+message)
	if s.confirmIdx >= len(s.Confirms) {
		return false, fmt.Errorf("scripted prompter: no confirm answer queued for %q", message)
	}
	answer := s.Confirms[s.confirmIdx]
	s.confirmIdx++
	return answer, nil
}

func (s *Scripted) Prompt(message string) (string, error) {
	s.Log = append(s.Log, "prompt: "+message)
	if s.promptIdx >= len(s.Prompts) {
		return "", fmt.Errorf("scripted prompter: no prompt answer queued for %q", message)
	}
	answer := s.Prompts[s.promptIdx]
	s.promptIdx++
	return answer, nil
}

func (s *Scripted) Select(message string, options []string) (int, error) {
	s.Log = append(s.Log, fmt.Sprintf("select: %s %v", message, options))
	if s.selectIdx >= len(s.Selects) {
		return 0, fmt.Errorf("scripted prompter: no select answer queued for %q", message)
	}
	answer := s.Selects[s.selectIdx]
	s.selectIdx++
	return answer, nil
}
