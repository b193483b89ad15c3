package domain

import "sort"

// Member is a participant of the shared ledger. The member set is managed
// by the surrounding system; identity is immutable here.
type Member struct {
	ID        int64
	Name      string
	Telephone string
	Email     string
}

// MemberIDs returns the ids of members in ascending order.
func MemberIDs(members []Member) []int64 {
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
