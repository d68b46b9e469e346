package service

import (
	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/parser"
)

// CollectNodeStats walks the whole tree once and summarizes it
func CollectNodeStats(root *parser.Node) domain.NodeStats {
	stats := domain.NodeStats{Kinds: make(map[string]int)}
	if root == nil {
		return stats
	}

	for n, depth := range parser.Walk(root, parser.WalkOptions{}) {
		stats.TotalNodes++
		stats.Kinds[string(n.Type)]++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		if n.IsGeneric() {
			stats.GenericNodes++
		}
	}
	return stats
}

// ListNodes renders a walk as flat rows
func ListNodes(root *parser.Node, opts parser.WalkOptions) []domain.NodeEntry {
	if root == nil {
		return nil
	}

	var entries []domain.NodeEntry
	for n, depth := range parser.Walk(root, opts) {
		entries = append(entries, domain.NodeEntry{
			Depth:     depth,
			Type:      string(n.Type),
			Name:      n.Name,
			StartLine: n.StartLine,
			EndLine:   n.EndLine,
			Start:     n.Span.Start,
			End:       n.Span.End,
			Generic:   n.IsGeneric(),
		})
	}
	return entries
}
