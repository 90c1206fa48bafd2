package cli

import (
	"errors"

	"github.com/cyp0633/zbxmaint/schedule"
)

type ValidateCmd struct {
	RuleFlags
}

func (c *ValidateCmd) Run(ctx *Context) error {
	rule, err := c.Rule(ctx.Location, ctx.Now())
	if err != nil {
		return err
	}
	if err := validateRule(ctx, rule); err != nil {
		return err
	}
	ctx.printf("OK\n")
	return nil
}

func validateRule(ctx *Context, rule schedule.Rule) error {
	err := schedule.Validate(rule, schedule.ValidateOptions{Now: ctx.Now(), Location: ctx.Location})
	var verr *schedule.ValidationError
	if errors.As(err, &verr) {
		ctx.Logger.Debug("rule rejected", "violation", verr.Violation)
	}
	return err
}
