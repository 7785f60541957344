package dphash

// Stats describes the shape of a Table and the work it has done
type Stats struct {
	// Keys is the number of live keys
	Keys int
	// Updates is the number of inserts and deletes since the last rehash
	Updates int
	// M is the number of keys the top level is sized for, Buckets = 2·M
	M       int
	Buckets int
	// Slots is the total number of second level slots and Bound the
	// most the space condition allows
	Slots int
	Bound int

	Rehashes int
	Reseeds  int
	Growths  int
	// Draws counts every hash function drawn from the factory
	Draws int
}

// Stats returns the current Stats of t
func (t *Table) Stats() Stats {
	s := t.stats
	s.Keys = t.live
	s.Updates = t.count
	s.M, s.Buckets = t.m, t.sm
	s.Slots, s.Bound = t.space, t.bound(t.m, t.sm)
	return s
}
