// Package output provides utilities for formatting and displaying allocation
// results.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iwvelando/adspend-optimizer/internal/allocator"
	"github.com/iwvelando/adspend-optimizer/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, result *allocator.Result) {
	p := message.NewPrinter(language.English)
	name := result.Name
	if name == "" {
		name = "allocation"
	}
	fmt.Fprintf(w, "--- Results for %s ---\n", name)
	fmt.Fprintf(w, "Item                 | Spend         | Revenue       | ROAS\n")
	fmt.Fprintf(w, "____                 | _____         | _______       | ____\n")
	for _, id := range sortedKeys(result.Spends) {
		spend := result.Spends[id]
		revenue := result.Revenues[id]
		roas := 0.0
		if spend > 0 {
			roas = revenue / spend
		}
		_, _ = p.Fprintf(w, "%-20s | %13s | %13s | %s\n", id, format.Currency(spend), format.Currency(revenue), format.ROAS(roas))
	}
	fmt.Fprintf(w, "\n")
	_, _ = p.Fprintf(w, "Total spend:   %s\n", format.Currency(result.TotalSpend))
	_, _ = p.Fprintf(w, "Total revenue: %s\n", format.Currency(result.TotalRevenue))
	_, _ = p.Fprintf(w, "Profit:        %s\n", format.Currency(result.Profit))

	d := result.Diagnostics
	fmt.Fprintf(w, "\nSolved by %s (%s) in %.4fs, objective %.4f, run %s\n", d.Solver, d.Status, d.SolveTimeSeconds, d.ObjectiveValue, d.RunID)
	if len(d.HierarchyActuals) > 0 {
		fmt.Fprintf(w, "Hierarchy totals:\n")
		for _, id := range sortedKeys(d.HierarchyActuals) {
			_, _ = p.Fprintf(w, "  %s: %s\n", id, format.Currency(d.HierarchyActuals[id]))
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, result *allocator.Result) {
	fmt.Fprintf(w, `"item","spend","revenue"`)
	fmt.Fprintf(w, "\n")
	for _, id := range sortedKeys(result.Spends) {
		fmt.Fprintf(w, `"%s","%.2f","%.2f"`, escapeQuotes(id), result.Spends[id], result.Revenues[id])
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, `"total","%.2f","%.2f"`, result.TotalSpend, result.TotalRevenue)
	fmt.Fprintf(w, "\n")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
