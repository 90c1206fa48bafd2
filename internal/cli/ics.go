package cli

import (
	"fmt"
	"os"

	"github.com/cyp0633/zbxmaint/schedule"
)

type IcsCmd struct {
	RuleFlags
	ID     string `help:"Export a stored maintenance instead of the rule given by flags."`
	Name   string `short:"n" help:"Calendar name. Defaults to the maintenance name."`
	Output string `short:"o" help:"Write to this file instead of standard output." type:"path"`
	RRule  bool   `name:"rrule" help:"Print the RRULE of each period instead of a calendar."`
}

func (c *IcsCmd) Run(ctx *Context) error {
	rules, name, err := resolveRules(ctx, c.ID, &c.RuleFlags)
	if err != nil {
		return err
	}
	if c.Name != "" {
		name = c.Name
	}

	if c.RRule {
		for _, r := range rules {
			text, err := schedule.ToRRule(r, ctx.Location)
			if err != nil {
				return err
			}
			ctx.printf("%s\n", text)
		}
		return nil
	}

	occurrences := upcoming(ctx, rules)
	if len(occurrences) == 0 {
		return fmt.Errorf("no upcoming windows to export")
	}
	data, err := schedule.EncodeCalendar(schedule.Calendar(name, occurrences, ctx.Now()))
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err = ctx.Out.Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	ctx.printf("Wrote %d windows to %s\n", len(occurrences), c.Output)
	return nil
}
