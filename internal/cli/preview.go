package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/cyp0633/zbxmaint/schedule"
)

type PreviewCmd struct {
	RuleFlags
	ID string `help:"Preview a stored maintenance instead of the rule given by flags."`
}

func (c *PreviewCmd) Run(ctx *Context) error {
	rules, name, err := resolveRules(ctx, c.ID, &c.RuleFlags)
	if err != nil {
		return err
	}

	occurrences := upcoming(ctx, rules)
	if len(occurrences) == 0 {
		ctx.printf("No upcoming windows for %s\n", name)
		return nil
	}

	ctx.printf("Upcoming windows for %s (%s):\n", name, ctx.Location)
	for _, o := range occurrences {
		marker := ""
		if o.Ongoing {
			marker = "  (ongoing)"
		}
		ctx.printf("  %s - %s%s\n",
			o.Start.In(ctx.Location).Format("Mon 2006-01-02 15:04"),
			o.End.In(ctx.Location).Format("Mon 2006-01-02 15:04"),
			marker)
	}
	return nil
}

// resolveRules returns the rules of the stored maintenance id, or the rule
// described by flags when id is empty.
func resolveRules(ctx *Context, id string, flags *RuleFlags) ([]schedule.Rule, string, error) {
	if id == "" {
		rule, err := flags.Rule(ctx.Location, ctx.Now())
		if err != nil {
			return nil, "", err
		}
		return []schedule.Rule{rule}, rule.Schedule.(fmt.Stringer).String(), nil
	}

	m, notRepresentable, err := loadMaintenance(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if notRepresentable {
		ctx.Logger.Warn("some periods cannot be shown in local time; their day pattern is in UTC", "id", id)
	}
	return m.Rules(), m.Name, nil
}

func loadMaintenance(ctx *Context, id string) (schedule.Maintenance, bool, error) {
	client, err := ctx.API()
	if err != nil {
		return schedule.Maintenance{}, false, err
	}
	w, err := client.LoadRule(context.Background(), id)
	if err != nil {
		return schedule.Maintenance{}, false, err
	}
	return schedule.DecodeMaintenance(w, ctx.Offset())
}

// upcoming merges the occurrences of all rules, keeping the earliest
// schedule.MaxOccurrences.
func upcoming(ctx *Context, rules []schedule.Rule) []schedule.Occurrence {
	now := ctx.Now()
	var all []schedule.Occurrence
	for _, r := range rules {
		all = append(all, ctx.Engine.Occurrences(r, now)...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start.Before(all[j].Start) })
	if len(all) > schedule.MaxOccurrences {
		all = all[:schedule.MaxOccurrences]
	}
	return all
}
