package dataset

// Prepare drops duplicate questions, keeping the first occurrence, and
// returns at most maxRows records. maxRows below 1 is treated as 1.
func Prepare(records []Record, maxRows int) []Record {
	if maxRows < 1 {
		maxRows = 1
	}
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, min(len(records), maxRows))
	for _, r := range records {
		if len(out) >= maxRows {
			break
		}
		r = newRecord(r.Question, r.Answer)
		if !r.valid() {
			continue
		}
		if _, dup := seen[r.Question]; dup {
			continue
		}
		seen[r.Question] = struct{}{}
		out = append(out, r)
	}
	return out
}
