package ops

// EquivPartition groups items into disjoint partitions under the given
// equivalence relation. An item joins the first existing partition whose
// representative (first element) it is equivalent to, else it starts a new
// partition. Order is preserved within each partition and every input item
// lands in exactly one partition.
//
// The scan is O(n*k) in the number of partitions; correctness of the
// relation, not performance, is the contract here.
func EquivPartition[T any](items []T, rel func(a, b T) bool) [][]T {
	var partitions [][]T

outer:
	for _, item := range items {
		for i, part := range partitions {
			if rel(item, part[0]) {
				partitions[i] = append(part, item)
				continue outer
			}
		}
		partitions = append(partitions, []T{item})
	}

	return partitions
}
