package repository

// ElementScanner lists capturable ids without a browser.
type ElementScanner interface {
	Scan(path string, prefixes []string) ([]string, error)
}
