package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyp0633/zbxmaint/schedule"
	"github.com/samber/mo"
)

type ListCmd struct {
	Host  []string `help:"Only maintenances covering these host ids."`
	Group []string `help:"Only maintenances covering these host group ids."`
	Name  string   `help:"Only maintenances whose name contains this text."`
}

func (c *ListCmd) Run(ctx *Context) error {
	client, err := ctx.API()
	if err != nil {
		return err
	}
	found, err := client.Maintenances().Hosts(c.Host...).Groups(c.Group...).Name(c.Name).Do(context.Background())
	if err != nil {
		return err
	}
	if len(found) == 0 {
		ctx.printf("No maintenances found\n")
		return nil
	}
	for _, w := range found {
		ctx.printf("%-8s %-40s %d period(s)\n", w.MaintenanceID, w.Name, len(w.Timeperiods))
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Maintenance id."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	m, notRepresentable, err := loadMaintenance(ctx, c.ID)
	if err != nil {
		return err
	}

	ctx.printf("%s (id %s)\n", m.Name, m.ID.OrEmpty())
	if m.Description != "" {
		ctx.printf("  %s\n", m.Description)
	}
	collection := "with data collection"
	if !m.DataCollection {
		collection = "without data collection"
	}
	ctx.printf("  %s, active %s to %s\n", collection,
		m.ActiveSince.In(ctx.Location).Format("2006-01-02 15:04"),
		m.ActiveTill.In(ctx.Location).Format("2006-01-02 15:04"))
	if len(m.HostIDs) > 0 {
		ctx.printf("  hosts: %s\n", strings.Join(m.HostIDs, ", "))
	}
	if len(m.GroupIDs) > 0 {
		ctx.printf("  groups: %s\n", strings.Join(m.GroupIDs, ", "))
	}
	for i, p := range m.Periods {
		ctx.printf("  period %d: %s for %s\n", i+1, p.Schedule, p.Duration)
	}
	if notRepresentable {
		ctx.printf("  note: some start times cannot be shown in %s without changing their days\n", ctx.Location)
	}
	return nil
}

type CreateCmd struct {
	RuleFlags
	Name        string   `short:"n" help:"Maintenance name." required:""`
	Description string   `help:"Maintenance description."`
	Host        []string `help:"Host ids to put into maintenance."`
	Group       []string `help:"Host group ids to put into maintenance."`
	NoData      bool     `help:"Stop data collection during the windows."`
	ID          string   `help:"Replace the stored maintenance with this id."`
	DryRun      bool     `help:"Print the record instead of saving it."`
}

func (c *CreateCmd) Run(ctx *Context) error {
	rule, err := c.Rule(ctx.Location, ctx.Now())
	if err != nil {
		return err
	}
	if err := validateRule(ctx, rule); err != nil {
		return err
	}

	m := schedule.Maintenance{
		Name:           c.Name,
		Description:    c.Description,
		DataCollection: !c.NoData,
		ActiveSince:    rule.ActiveSince,
		ActiveTill:     rule.ActiveTill,
		HostIDs:        c.Host,
		GroupIDs:       c.Group,
		Periods:        []schedule.Period{rule.Period},
	}
	if c.ID != "" {
		m.ID = mo.Some(c.ID)
	}
	// The API requires an active window even for one-time periods.
	if once, ok := rule.Schedule.(schedule.OneTime); ok {
		m.ActiveSince = once.Start
		m.ActiveTill = once.Start.Add(rule.Duration)
	}

	w, notRepresentable := schedule.EncodeMaintenance(m, ctx.Offset())
	if notRepresentable {
		return fmt.Errorf("the start time moves to another day in UTC, which cannot be stored for an interval of %d", c.Every)
	}

	if c.DryRun {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(w)
	}

	client, err := ctx.API()
	if err != nil {
		return err
	}
	id, err := client.SaveRule(context.Background(), w)
	if err != nil {
		return err
	}
	ctx.Logger.Info("maintenance saved", "id", id, "name", c.Name)
	ctx.printf("Saved maintenance %s (ID: %s)\n", c.Name, id)
	return nil
}

type DeleteCmd struct {
	IDs []string `arg:"" help:"Maintenance ids."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	client, err := ctx.API()
	if err != nil {
		return err
	}
	if err := client.DeleteRule(context.Background(), c.IDs...); err != nil {
		return err
	}
	ctx.printf("Deleted %d maintenance(s)\n", len(c.IDs))
	return nil
}

type APIVersionCmd struct{}

func (c *APIVersionCmd) Run(ctx *Context) error {
	client, err := ctx.API()
	if err != nil {
		return err
	}
	version, err := client.APIVersion(context.Background())
	if err != nil {
		return err
	}
	ctx.printf("%s\n", version)
	return nil
}
