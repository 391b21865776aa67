// Package partition divides a counted workload into contiguous per-participant
// ranges for fork-join execution.
package partition

// WorkRange is the contiguous slice [Offset, Offset+Count) of a workload
// assigned to one participant. Participant 0 is always the calling goroutine.
type WorkRange struct {
	Offset      int
	Count       int
	Participant int
}

// End returns the exclusive upper bound of the range.
func (r WorkRange) End() int {
	return r.Offset + r.Count
}

// Empty reports whether the range covers no indices.
func (r WorkRange) Empty() bool {
	return r.Count <= 0
}

// Whole returns the trivial single range used when partitioning is bypassed.
func Whole(count int) WorkRange {
	if count < 0 {
		count = 0
	}
	return WorkRange{Count: count}
}

// Partition splits [0, count) into exactly participants ranges.
//
// Every range holds count/participants indices and the first
// count%participants ranges hold one more. Ranges are returned in participant
// order and are contiguous; when count < participants the trailing ranges are
// empty. participants is clamped to at least 1 and negative counts are
// treated as zero.
func Partition(count, participants int) []WorkRange {
	if participants < 1 {
		participants = 1
	}
	return PartitionInto(make([]WorkRange, 0, participants), count, participants)
}

// PartitionInto is Partition writing into dst, which is truncated first.
// It allocates only when dst lacks capacity.
func PartitionInto(dst []WorkRange, count, participants int) []WorkRange {
	if participants < 1 {
		participants = 1
	}
	if count < 0 {
		count = 0
	}

	dst = dst[:0]
	base := count / participants
	remainder := count % participants

	offset := 0
	for i := 0; i < participants; i++ {
		size := base
		if i < remainder {
			size++
		}
		dst = append(dst, WorkRange{Offset: offset, Count: size, Participant: i})
		offset += size
	}
	return dst
}

// Participants decides how many participants a cycle over count units uses.
//
// requested <= 0 asks for every available participant (maxWorkers plus the
// caller). The result is clamped into [1, maxWorkers+1] and never exceeds
// count, so no participant is handed an empty range. A count of 0 or 1
// always yields 1, which callers treat as "run inline".
func Participants(count, requested, maxWorkers int) int {
	if maxWorkers < 0 {
		maxWorkers = 0
	}
	limit := maxWorkers + 1
	if requested <= 0 || requested > limit {
		requested = limit
	}
	if count <= 1 {
		return 1
	}
	if requested > count {
		requested = count
	}
	return requested
}
