package rank

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Player and team names compare the way the competition sheet sorts them:
// Spanish collation, ignoring case and accents. collate.Collator keeps an
// internal buffer, hence the mutex.
var (
	namesMu sync.Mutex
	names   = collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
)

// CompareNames reports the collation order of a and b: negative when a sorts
// first, zero when they are equivalent, positive otherwise.
func CompareNames(a, b string) int {
	namesMu.Lock()
	defer namesMu.Unlock()
	return names.CompareString(a, b)
}

// LessNames reports whether a sorts strictly before b.
func LessNames(a, b string) bool {
	return CompareNames(a, b) < 0
}
