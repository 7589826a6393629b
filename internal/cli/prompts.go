package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"github.com/dyike/FiiGo/internal/logger"
	"github.com/dyike/FiiGo/internal/pipeline"
)

const (
	chartYes = "yes"
	chartNo  = "no"
	chartAsk = "ask"
)

var affirmativeAnswers = map[string]bool{
	"s":   true,
	"sim": true,
	"y":   true,
	"yes": true,
}

// IsAffirmative accepts s, sim, y and yes in any case.
func IsAffirmative(answer string) bool {
	return affirmativeAnswers[strings.ToLower(strings.TrimSpace(answer))]
}

// PromptConfirm asks question on the terminal and reports whether the answer
// was affirmative.
func PromptConfirm(question string) (bool, error) {
	var answer string
	prompt := &survey.Input{
		Message: question,
		Help:    "Answer s/sim/y/yes to accept; anything else declines",
	}

	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// chartDecision maps the --chart flag to a confirmation function. Asking
// without a terminal declines.
func chartDecision(mode string) (pipeline.ConfirmFunc, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case chartYes:
		return pipeline.Always(true), nil
	case chartNo:
		return pipeline.Always(false), nil
	case chartAsk, "":
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			logger.Log.Info("stdin is not a terminal, skipping chart prompt")
			return pipeline.Always(false), nil
		}
		return PromptConfirm, nil
	default:
		return nil, fmt.Errorf("invalid --chart value %q (use yes, no or ask)", mode)
	}
}
