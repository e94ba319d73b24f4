package days

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/routineos/internal/checkin"
	"github.com/julianstephens/routineos/internal/cli"
)

// PromptCheckIn asks the completion check-in questions.
func PromptCheckIn(ctx *cli.Context) (checkin.CheckIn, error) {
	mood := string(checkin.MoodUp)
	timeOK, startedOK, endedOK := true, true, true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How did it go?").
				Options(
					huh.NewOption("Good", string(checkin.MoodUp)),
					huh.NewOption("Not great", string(checkin.MoodDown)),
				).
				Value(&mood),
			huh.NewConfirm().Title("Was the planned time about right?").Value(&timeOK),
			huh.NewConfirm().Title("Did you start on time?").Value(&startedOK),
			huh.NewConfirm().Title("Did you finish on time?").Value(&endedOK),
		),
	).WithInput(ctx.In).WithOutput(ctx.Out)

	if err := form.Run(); err != nil {
		return checkin.CheckIn{}, fmt.Errorf("check-in form error: %w", err)
	}
	return checkin.CheckIn{
		Mood:           checkin.Mood(mood),
		TimeWasCorrect: timeOK,
		StartedOnTime:  startedOK,
		EndedOnTime:    endedOK,
	}, nil
}
