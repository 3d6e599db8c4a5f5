package templates

// PageLink is one entry of the pagination control. Gap entries render as an ellipsis.
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// PageLinks lists the first and last page plus window pages on each side of
// current, with gaps where pages are skipped.
func PageLinks(current, total, window int) []PageLink {
	if total <= 1 {
		return nil
	}
	if window < 0 {
		window = 0
	}
	current = min(max(current, 1), total)

	links := make([]PageLink, 0, 2*window+5)
	last := 0
	for n := 1; n <= total; n++ {
		if n != 1 && n != total && (n < current-window || n > current+window) {
			continue
		}
		if last != 0 && n-last > 1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Number: n, Current: n == current})
		last = n
	}
	return links
}
