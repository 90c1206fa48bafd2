package zabbix

import (
	"context"
	"fmt"

	"github.com/cyp0633/zbxmaint/schedule"
)

// MaintenanceQuery builds a maintenance.get request.
type MaintenanceQuery interface {
	IDs(ids ...string) MaintenanceQuery
	Hosts(hostIDs ...string) MaintenanceQuery
	Groups(groupIDs ...string) MaintenanceQuery
	Name(substring string) MaintenanceQuery
	Limit(limit int) MaintenanceQuery
	Do(ctx context.Context) ([]schedule.WireMaintenance, error)
}

type maintenanceQuery struct {
	client   *client
	ids      []string
	hostIDs  []string
	groupIDs []string
	name     string
	limit    int
}

// getParams mirrors the maintenance.get parameters used here.
type getParams struct {
	Output            string            `json:"output"`
	SelectTimeperiods string            `json:"selectTimeperiods"`
	SelectHosts       []string          `json:"selectHosts"`
	SelectHostGroups  []string          `json:"selectHostGroups"`
	MaintenanceIDs    []string          `json:"maintenanceids,omitempty"`
	HostIDs           []string          `json:"hostids,omitempty"`
	GroupIDs          []string          `json:"groupids,omitempty"`
	Search            map[string]string `json:"search,omitempty"`
	SortField         string            `json:"sortfield"`
	Limit             int               `json:"limit,omitempty"`
}

// getRecord is a maintenance as returned by maintenance.get, where host
// groups come back under a different key than the one create and update
// expect.
type getRecord struct {
	schedule.WireMaintenance
	HostGroups []schedule.WireGroup `json:"hostgroups"`
}

// Maintenances returns a query over all maintenances.
func (c *client) Maintenances() MaintenanceQuery {
	return &maintenanceQuery{client: c}
}

func (q *maintenanceQuery) IDs(ids ...string) MaintenanceQuery {
	q.ids = ids
	return q
}

func (q *maintenanceQuery) Hosts(hostIDs ...string) MaintenanceQuery {
	q.hostIDs = hostIDs
	return q
}

func (q *maintenanceQuery) Groups(groupIDs ...string) MaintenanceQuery {
	q.groupIDs = groupIDs
	return q
}

func (q *maintenanceQuery) Name(substring string) MaintenanceQuery {
	q.name = substring
	return q
}

func (q *maintenanceQuery) Limit(limit int) MaintenanceQuery {
	q.limit = limit
	return q
}

func (q *maintenanceQuery) buildParams() getParams {
	params := getParams{
		Output:            "extend",
		SelectTimeperiods: "extend",
		SelectHosts:       []string{"hostid"},
		SelectHostGroups:  []string{"groupid"},
		MaintenanceIDs:    q.ids,
		HostIDs:           q.hostIDs,
		GroupIDs:          q.groupIDs,
		SortField:         "name",
		Limit:             q.limit,
	}
	if q.name != "" {
		params.Search = map[string]string{"name": q.name}
	}
	return params
}

// Do executes the query
func (q *maintenanceQuery) Do(ctx context.Context) ([]schedule.WireMaintenance, error) {
	var records []getRecord
	if err := q.client.rpc.DoRPC(ctx, "maintenance.get", q.buildParams(), &records); err != nil {
		return nil, fmt.Errorf("failed to get maintenances: %w", err)
	}

	out := make([]schedule.WireMaintenance, 0, len(records))
	for _, r := range records {
		m := r.WireMaintenance
		if len(m.Groups) == 0 {
			m.Groups = r.HostGroups
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadRule fetches one maintenance with its timeperiods, hosts and groups.
func (c *client) LoadRule(ctx context.Context, id string) (schedule.WireMaintenance, error) {
	found, err := c.Maintenances().IDs(id).Do(ctx)
	if err != nil {
		return schedule.WireMaintenance{}, err
	}
	if len(found) == 0 {
		return schedule.WireMaintenance{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return found[0], nil
}

// ListRules fetches every maintenance, sorted by name.
func (c *client) ListRules(ctx context.Context) ([]schedule.WireMaintenance, error) {
	return c.Maintenances().Do(ctx)
}
