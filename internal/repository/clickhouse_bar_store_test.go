package repository

import (
	"fmt"
	"strings"
	"testing"
)

// The bar table is ReplacingMergeTree so re-ingested bars dedupe, but the
// engine only collapses versions at merge time. Every read must therefore
// go through FINAL, or a repeated backfill feeds duplicate (symbol, ts)
// rows into the feature builder until a background merge happens to run.
func TestBarQueriesCollapseReplacedRows(t *testing.T) {
	var ddl strings.Builder
	for _, stmt := range Schema() {
		ddl.WriteString(stmt)
	}
	if !strings.Contains(ddl.String(), "ReplacingMergeTree") {
		t.Fatalf("bar table must dedupe on (symbol, ts):\n%s", ddl.String())
	}

	queries := map[string]string{
		"GetBars":        fmt.Sprintf(getBarsQuery, barsTable),
		"GetLatestNBars": fmt.Sprintf(getLatestNBarsQuery, barsTable),
	}
	for name, q := range queries {
		if !strings.Contains(q, "FROM "+barsTable+" FINAL") {
			t.Errorf("%s must read %s FINAL to collapse replaced rows:\n%s", name, barsTable, q)
		}
	}
}
