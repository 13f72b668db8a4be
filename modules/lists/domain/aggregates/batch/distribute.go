package batch

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
)

// Shares returns how many of n records each of a agents receives:
// n/a each, with the first n%a agents taking one extra.
func Shares(n, a int) []int {
	if a <= 0 {
		return nil
	}
	base, extra := n/a, n%a
	out := make([]int, a)
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

// Distribute splits records into contiguous slices, one per agent, visiting
// agentIDs in the order given. Agents whose share is zero get no batch.
// The result depends only on the arguments.
func Distribute(
	uploadID uuid.UUID,
	records []record.Record,
	agentIDs []uuid.UUID,
	fileName string,
	createdAt time.Time,
) ([]Batch, error) {
	if len(agentIDs) == 0 {
		return nil, ErrNoAgentsAvailable
	}

	shares := Shares(len(records), len(agentIDs))
	out := make([]Batch, 0, min(len(records), len(agentIDs)))
	next := 0
	for i, agentID := range agentIDs {
		n := shares[i]
		if n == 0 {
			continue
		}
		out = append(out, New(uploadID, agentID, i, records[next:next+n], fileName, createdAt))
		next += n
	}
	return out, nil
}
