package dphash

// maxCapacity is the largest capacity a bucket is ever sized for. Its
// 2·c·(c-1) slots still fit an int, and no table within the space bound
// comes near it.
const maxCapacity = 1 << 30

// slotsFor returns the number of slots a bucket of the given capacity
// allocates. With at most capacity keys in 2·capacity·(capacity-1) slots a
// random second level function is injective with probability at least 3/4.
func slotsFor(capacity int) int {
	if capacity == 0 {
		return 0
	}
	return 2 * capacity * (capacity - 1)
}

// spaceBound is the most second level slots a table sized for m keys over
// sm buckets may hold: 32·m²/sm + 4·m. Keeping every rebuild and every
// bucket growth under it keeps the table in O(n) space.
func spaceBound(m, sm int) int {
	return 32*m*m/sm + 4*m
}

// legacySpaceBound is the bound with m² evaluated as m xor 2, the way it
// was historically computed. It comes out close to 4·m, far tighter than
// spaceBound, so tables using it rehash more often.
func legacySpaceBound(m, sm int) int {
	return 32*(m^2)/sm + 4*m
}

// verify reports whether space slots fit the bound of the current top level
func (t *Table) verify(space int) bool {
	return space <= t.bound(t.m, t.sm)
}
