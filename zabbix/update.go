package zabbix

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyp0633/zbxmaint/schedule"
)

type idsResult struct {
	MaintenanceIDs []string `json:"maintenanceids"`
}

// SaveRule creates m when it has no id and replaces the stored record
// otherwise. It returns the id of the saved maintenance.
func (c *client) SaveRule(ctx context.Context, m schedule.WireMaintenance) (string, error) {
	if m.Name == "" {
		return "", errors.New("maintenance name cannot be empty")
	}
	if len(m.Hosts) == 0 && len(m.Groups) == 0 {
		return "", errors.New("maintenance needs at least one host or host group")
	}

	method := "maintenance.create"
	if m.MaintenanceID != "" {
		method = "maintenance.update"
	}

	var res idsResult
	if err := c.rpc.DoRPC(ctx, method, m, &res); err != nil {
		return "", fmt.Errorf("failed to save maintenance: %w", err)
	}
	if len(res.MaintenanceIDs) == 0 {
		return "", fmt.Errorf("%s returned no maintenance id", method)
	}
	return res.MaintenanceIDs[0], nil
}

// DeleteRule deletes the maintenances with the given ids.
func (c *client) DeleteRule(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	var res idsResult
	if err := c.rpc.DoRPC(ctx, "maintenance.delete", ids, &res); err != nil {
		return fmt.Errorf("failed to delete maintenance: %w", err)
	}
	return nil
}
