package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/schema"
)

// PrintCacheStatus prints cache status information to stdout.
func PrintCacheStatus(status schema.CacheStatus, cfg *contract.Config) error {
	return WriteCacheStatus(os.Stdout, status, cfg)
}

// WriteCacheStatus writes cache status information in the configured format.
// Tabular formats fall back to plain text.
func WriteCacheStatus(w io.Writer, status schema.CacheStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, status)
	case schema.YAMLOut:
		return writeYAML(w, status)
	}

	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %s\n", formatCount(status.TotalEntries))
	_, _ = fmt.Fprintf(w, "Deal Entries: %s\n", formatCount(status.DealEntries))
	_, _ = fmt.Fprintf(w, "Log Page Entries: %s\n", formatCount(status.LogPageEntries))
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
	return nil
}
