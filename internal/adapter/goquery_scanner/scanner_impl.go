package goquery_scanner

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/capture-service/pkg/utils"
)

// Scanner finds capturable ids in a static HTML file without rendering it.
// Elements created by scripts at load time are invisible to it.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan returns the ids of path that start with one of prefixes, in document order.
func (s *Scanner) Scan(path string, prefixes []string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	seen := make(map[string]bool)
	ids := []string{}
	doc.Find("[id]").Each(func(i int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		if !utils.HasAnyPrefix(id, prefixes) || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids, nil
}
