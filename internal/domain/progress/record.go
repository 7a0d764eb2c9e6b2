// Package progress models per-account skill completion and the aggregate
// statistics computed from it.
package progress

import "context"

// CareerProgress maps skill name to completion.
type CareerProgress map[string]bool

// AccountProgress maps career id to that career's skill completion.
type AccountProgress map[string]CareerProgress

// Record is the whole progress collection keyed by account id.
// Keys are not validated against the catalog; readers must tolerate
// orphaned career ids and skill names.
type Record map[string]AccountProgress

// Set records completion for one (account, career, skill) triple, creating
// intermediate maps as needed.
func (r Record) Set(accountID, careerID, skillName string, completed bool) {
	ap, ok := r[accountID]
	if !ok || ap == nil {
		ap = make(AccountProgress)
		r[accountID] = ap
	}
	cp, ok := ap[careerID]
	if !ok || cp == nil {
		cp = make(CareerProgress)
		ap[careerID] = cp
	}
	cp[skillName] = completed
}

// ForAccount returns a deep copy of one account's progress; never nil.
func (r Record) ForAccount(accountID string) AccountProgress {
	out := make(AccountProgress)
	for careerID, skills := range r[accountID] {
		out[careerID] = skills.Clone()
	}
	return out
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for accountID := range r {
		out[accountID] = r.ForAccount(accountID)
	}
	return out
}

// Clone returns a copy of the career progress; never nil.
func (c CareerProgress) Clone() CareerProgress {
	out := make(CareerProgress, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// CompletedCount counts true leaves.
func (c CareerProgress) CompletedCount() int {
	n := 0
	for _, done := range c {
		if done {
			n++
		}
	}
	return n
}

// Repository persists the progress record.
type Repository interface {
	// Load returns the full record; empty when nothing is stored or the
	// stored data cannot be parsed.
	Load(ctx context.Context) (Record, error)

	// Save overwrites the full record.
	Save(ctx context.Context, record Record) error

	// Set writes one completion flag and persists it.
	Set(ctx context.Context, accountID, careerID, skillName string, completed bool) error

	// GetForAccount returns an empty map for accounts without progress.
	GetForAccount(ctx context.Context, accountID string) (AccountProgress, error)
}
