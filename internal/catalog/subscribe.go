package catalog

// Subscribe returns a channel that receives every published catalog and a
// function that ends the subscription. Slow readers only see the latest value.
func (s *Store) Subscribe() (<-chan Catalog, func()) {
	ch := make(chan Catalog, 1)

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subsMu.Unlock()

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Store) publish(c Catalog) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}
