package recommend

import "strings"

// parseNames splits the oracle's raw answer into candidate assessment names:
// comma-delimited, whitespace-trimmed, empty tokens dropped, truncated to
// maxResults. The oracle's order is the ranking signal and is preserved.
// Token content is not validated here; unmatched names are handled by the
// resolver.
func parseNames(raw string, maxResults int) []string {
	names := make([]string, 0, maxResults)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		names = append(names, token)
		if len(names) == maxResults {
			break
		}
	}

	return names
}
