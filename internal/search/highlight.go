package search

import "unicode"

// Segment is a run of text, marked when it is the highlighted match.
type Segment struct {
	Text string
	Mark bool
}

// Highlight splits text around the first case-insensitive occurrence of
// query. Without an occurrence the whole text comes back unmarked.
func Highlight(text, query string) []Segment {
	tr := []rune(text)
	qr := []rune(query)
	for i := range qr {
		qr[i] = unicode.ToLower(qr[i])
	}
	if len(qr) == 0 || len(qr) > len(tr) {
		return []Segment{{Text: text}}
	}

	at := -1
	for i := 0; i+len(qr) <= len(tr) && at < 0; i++ {
		ok := true
		for k, r := range qr {
			if unicode.ToLower(tr[i+k]) != r {
				ok = false
				break
			}
		}
		if ok {
			at = i
		}
	}
	if at < 0 {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	if at > 0 {
		segs = append(segs, Segment{Text: string(tr[:at])})
	}
	segs = append(segs, Segment{Text: string(tr[at : at+len(qr)]), Mark: true})
	if end := at + len(qr); end < len(tr) {
		segs = append(segs, Segment{Text: string(tr[end:])})
	}
	return segs
}
