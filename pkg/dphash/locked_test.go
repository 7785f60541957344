package dphash

import (
	"sync"
	"testing"
)

func TestLocked(t *testing.T) {
	const (
		writers = 4
		perKey  = 1000
	)
	l := NewLocked(newTable(t, 2.0))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan error, writers)

	// readers spin over the whole universe while writers fill disjoint ranges
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for k := uint64(0); k < writers*perKey; k += 97 {
					l.Lookup(k)
				}
				l.Stats()
			}
		}()
	}

	var ww sync.WaitGroup
	for w := 0; w < writers; w++ {
		ww.Add(1)
		go func(base uint64) {
			defer ww.Done()
			for k := base; k < base+perKey; k++ {
				if err := l.Insert(k, k); err != nil {
					errs <- err
					return
				}
			}
			for k := base; k < base+perKey; k += 2 {
				if err := l.Delete(k); err != nil {
					errs <- err
					return
				}
			}
		}(uint64(w * perKey))
	}
	ww.Wait()
	close(stop)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}

	if n := l.Len(); n != writers*perKey/2 {
		t.Errorf("Len(): want: %d, got: %d", writers*perKey/2, n)
	}
	for k := uint64(0); k < writers*perKey; k++ {
		p, ok := l.Get(k)
		if ok != (k%2 == 1) || (ok && p.(uint64) != k) {
			t.Fatalf("Get(%d) = %v, %v", k, p, ok)
		}
	}

	if err := l.Rehash(); err != nil {
		t.Fatal(err)
	}
	n := 0
	l.Range(func(uint64, interface{}) bool {
		n++
		return true
	})
	if n != writers*perKey/2 {
		t.Errorf("Range: want %d keys, got: %d", writers*perKey/2, n)
	}
}
