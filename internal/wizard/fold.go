package wizard

import "golang.org/x/text/cases"

var folder = cases.Fold()

func equalFold(a, b string) bool {
	return folder.String(a) == folder.String(b)
}
