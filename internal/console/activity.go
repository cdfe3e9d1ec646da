package console

import (
	"context"

	"github.com/stockdeck/stockdeck/internal/api"
	"github.com/stockdeck/stockdeck/internal/platform/httpx"
)

// LogReader is the slice of the admin client the viewer uses.
type LogReader interface {
	ListLogs(ctx context.Context) ([]api.ActivityLogEntry, error)
}

// Exporter triggers the binary activity log export.
type Exporter interface {
	DownloadActivityLogs(ctx context.Context) (string, error)
}

// FilterAll shows every action type.
const FilterAll = "ALL"

// ActivityView renders the audit trail. The whole log is fetched unpaged;
// filtering by action type happens purely client-side over the fetched set.
type ActivityView struct {
	logs     LogReader
	exports  Exporter
	notifier Notifier

	entries []api.ActivityLogEntry
	filter  string
}

// NewActivityView builds the viewer with the filter set to ALL.
func NewActivityView(logs LogReader, exports Exporter, notifier Notifier) *ActivityView {
	return &ActivityView{logs: logs, exports: exports, notifier: notifier, filter: FilterAll}
}

// Load fetches the full log, newest first.
func (v *ActivityView) Load(ctx context.Context) error {
	entries, err := v.logs.ListLogs(ctx)
	if err != nil {
		return err
	}
	v.entries = entries
	return nil
}

// SetFilter narrows the displayed entries to one action type, or FilterAll.
// No request is issued; the filter applies to the already-fetched set.
func (v *ActivityView) SetFilter(filter string) { v.filter = filter }

// Filter returns the active filter.
func (v *ActivityView) Filter() string { return v.filter }

// Entries returns the fetched log narrowed by the active filter.
func (v *ActivityView) Entries() []api.ActivityLogEntry {
	if v.filter == FilterAll {
		out := make([]api.ActivityLogEntry, len(v.entries))
		copy(out, v.entries)
		return out
	}
	var out []api.ActivityLogEntry
	for _, entry := range v.entries {
		if string(entry.Action) == v.filter {
			out = append(out, entry)
		}
	}
	return out
}

// Export downloads the activity log document and reports the saved path.
func (v *ActivityView) Export(ctx context.Context) error {
	path, err := v.exports.DownloadActivityLogs(ctx)
	if err != nil {
		v.notifier.Alert(httpx.Message(err, "Failed to export logs"))
		return err
	}
	v.notifier.Info("Saved " + path)
	return nil
}
