package settings

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	AskCheckIn      *bool             `name:"ask-checkin" help:"Ask for a check-in when a task is done." negatable:""`
	ShowFeedback    *bool             `help:"Show yesterday's feedback in the focus view." negatable:""`
	DefaultViewMode *string           `help:"View opened by default (focus or overview)." enum:"focus,overview"`
	CompactHeader   *bool             `help:"Use a one-line header." negatable:""`
	Timezone        *string           `help:"IANA timezone used for today, or Local."`
	Set             map[string]string `help:"Set any setting by key (key=value). Repeatable." mapsep:","`
}

func (c *SettingsCmd) Validate() error {
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone %q", *c.Timezone)
	}
	if tz, ok := c.Set[constants.SettingTimezone]; ok && !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	return nil
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	changes := c.changes()
	if len(changes) == 0 {
		if !c.List {
			ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
			return nil
		}
		settings, err := ctx.Service.Settings(ctx.Ctx)
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		printSettings(ctx, settings)
		return nil
	}

	updated, err := ctx.Service.UpdateSettings(ctx.Ctx, changes)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	if c.List {
		printSettings(ctx, updated)
	}
	return nil
}

func (c *SettingsCmd) changes() map[string]string {
	changes := make(map[string]string, len(c.Set))
	for k, v := range c.Set {
		changes[k] = v
	}
	if c.AskCheckIn != nil {
		changes[constants.SettingAskCompletionCheckIn] = strconv.FormatBool(*c.AskCheckIn)
	}
	if c.ShowFeedback != nil {
		changes[constants.SettingShowFeedbackOnHome] = strconv.FormatBool(*c.ShowFeedback)
	}
	if c.DefaultViewMode != nil {
		changes[constants.SettingDefaultViewMode] = *c.DefaultViewMode
	}
	if c.CompactHeader != nil {
		changes[constants.SettingCompactHeader] = strconv.FormatBool(*c.CompactHeader)
	}
	if c.Timezone != nil {
		changes[constants.SettingTimezone] = *c.Timezone
	}
	return changes
}

func printSettings(ctx *cli.Context, s models.Settings) {
	values := models.SettingsToMap(s)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ctx.Println(cli.HeaderStyle.Render("Current Settings:"))
	for _, k := range keys {
		ctx.Printf("  %-24s %s\n", k, values[k])
	}
}
