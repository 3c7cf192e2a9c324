package dashboard

func applyOrderOverride(widgets []WidgetInstance, order []string) []WidgetInstance {
	if len(order) == 0 {
		return widgets
	}
	index := make(map[string]WidgetInstance, len(widgets))
	for _, w := range widgets {
		index[w.ID] = w
	}
	result := make([]WidgetInstance, 0, len(widgets))
	seen := make(map[string]struct{}, len(order))
	for _, id := range order {
		if w, ok := index[id]; ok {
			if _, dup := seen[id]; dup {
				continue
			}
			result = append(result, w)
			seen[id] = struct{}{}
		}
	}
	for _, w := range widgets {
		if _, ok := seen[w.ID]; !ok {
			result = append(result, w)
		}
	}
	return result
}

func applyHiddenFilter(widgets []WidgetInstance, hidden map[string]bool) []WidgetInstance {
	if len(hidden) == 0 {
		return widgets
	}
	result := make([]WidgetInstance, 0, len(widgets))
	for _, w := range widgets {
		if hidden[w.ID] {
			continue
		}
		result = append(result, w)
	}
	return result
}

// slotWidths maps widget ids to their column width from the saved rows.
func slotWidths(rows []LayoutRow) map[string]int {
	if len(rows) == 0 {
		return nil
	}
	widths := map[string]int{}
	for _, row := range rows {
		for _, slot := range row.Widgets {
			if slot.ID != "" {
				widths[slot.ID] = slot.Width
			}
		}
	}
	return widths
}

func applyWidths(widgets []WidgetInstance, widths map[string]int) []WidgetInstance {
	if len(widths) == 0 {
		return widgets
	}
	for i, w := range widgets {
		width, ok := widths[w.ID]
		if !ok {
			continue
		}
		meta := make(map[string]any, len(w.Metadata)+1)
		for k, v := range w.Metadata {
			meta[k] = v
		}
		meta["width"] = width
		widgets[i].Metadata = meta
	}
	return widgets
}
